package model

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is the follow edge between a subscriber and a channel.
type Subscription struct {
	ID           uuid.UUID `json:"id"`
	SubscriberID uuid.UUID `json:"subscriberId"`
	ChannelID    uuid.UUID `json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SubscribeResult struct {
	IsSubscribed bool `json:"isSubscribed"`
}

// SubscriptionStatus pairs the viewer's relation state with the
// channel's live subscriber count.
type SubscriptionStatus struct {
	IsSubscribed    bool  `json:"isSubscribed"`
	SubscriberCount int64 `json:"subscriberCount"`
}

// ChannelProfile is a channel page: the public user plus relation state
// for the requesting viewer.
type ChannelProfile struct {
	PublicUser
	CoverURL        string `json:"coverUrl"`
	SubscriberCount int64  `json:"subscriberCount"`
	VideoCount      int64  `json:"videoCount"`
	IsSubscribed    bool   `json:"isSubscribed"`
}
