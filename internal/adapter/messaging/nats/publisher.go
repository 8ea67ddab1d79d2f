package nats

import (
	"context"
	"encoding/json"

	"github.com/mohit-lanjewar/WanderLust/internal/listing/domain"
	"github.com/nats-io/nats.go"
)

const (
	subjectListingCreated = "listing.created"
	subjectListingUpdated = "listing.updated"
	subjectListingDeleted = "listing.deleted"
)

type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) PublishListingCreated(ctx context.Context, listing *domain.Listing) error {
	return p.publish(subjectListingCreated, listing)
}

func (p *Publisher) PublishListingUpdated(ctx context.Context, listing *domain.Listing) error {
	return p.publish(subjectListingUpdated, listing)
}

func (p *Publisher) PublishListingDeleted(ctx context.Context, listingID string) error {
	return p.publish(subjectListingDeleted, map[string]string{"id": listingID})
}

func (p *Publisher) publish(subject string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, jsonData)
}

func (p *Publisher) Close() {
	p.conn.Close()
}
