package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
	pkgkafka "github.com/duylamasd/duylam-oauth2/pkg/kafka"
)

// Kafka topic constants for auth domain events.
const (
	TopicUserRegistered   = "auth.user.registered"
	TopicUserLinked       = "auth.user.linked"
	TopicCredentialIssued = "auth.credential.issued"
)

// Aggregate type constants.
const (
	AggregateTypeUser       = "user"
	AggregateTypeCredential = "credential"
)

// Source identifier for events originating from this service.
const SourceAuthService = "auth-service"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// UserLinkedData is the payload for a user.linked event, emitted when a
// federated identity is attached to an account.
type UserLinkedData struct {
	ID         string `json:"id"`
	Provider   string `json:"provider"`
	ProviderID string `json:"provider_id"`
}

// CredentialIssuedData is the payload for a credential.issued event. The
// secret never leaves the issuance response.
type CredentialIssuedData struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Type       string `json:"credential_type"`
	ExpireTime string `json:"expire_time"`
}

// Producer publishes auth domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the auth service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Phone:    user.Phone,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, AggregateTypeUser, SourceAuthService, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("user_id", user.ID),
	)

	return nil
}

// PublishUserLinked publishes a user.linked event.
func (p *Producer) PublishUserLinked(ctx context.Context, user *domain.User, provider string) error {
	data := UserLinkedData{
		ID:         user.ID,
		Provider:   provider,
		ProviderID: user.ProviderIDs[provider],
	}

	event, err := pkgkafka.NewEvent(TopicUserLinked, user.ID, AggregateTypeUser, SourceAuthService, data)
	if err != nil {
		return fmt.Errorf("create user.linked event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserLinked, event); err != nil {
		return fmt.Errorf("publish user.linked event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.linked event",
		slog.String("user_id", user.ID),
		slog.String("provider", provider),
	)

	return nil
}

// PublishCredentialIssued publishes a credential.issued event.
func (p *Producer) PublishCredentialIssued(ctx context.Context, c *domain.Credential) error {
	data := CredentialIssuedData{
		ID:         c.ID,
		UserID:     c.UserID,
		Type:       string(c.Type),
		ExpireTime: c.ExpireTime.UTC().Format(time.RFC3339),
	}

	event, err := pkgkafka.NewEvent(TopicCredentialIssued, c.ID, AggregateTypeCredential, SourceAuthService, data)
	if err != nil {
		return fmt.Errorf("create credential.issued event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCredentialIssued, event); err != nil {
		return fmt.Errorf("publish credential.issued event: %w", err)
	}

	p.logger.DebugContext(ctx, "published credential.issued event",
		slog.String("credential_id", c.ID),
		slog.String("user_id", c.UserID),
	)

	return nil
}
