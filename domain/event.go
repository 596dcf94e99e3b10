package domain

import (
	"time"

	"golang.org/x/xerrors"

	bCtx "github.com/dropstation/marketapi/base/ctx"
)

type EventType string

const (
	EventListingCreated     EventType = "add_market_data"
	EventListingDeleted     EventType = "delete_market_data"
	EventBidAdded           EventType = "add_bid"
	EventBidCancelled       EventType = "cancel_bid"
	EventAuctionExtended    EventType = "extend_auction"
	EventPurchaseResolved   EventType = "resolve_purchase"
	EventPurchaseFailed     EventType = "resolve_purchase_fail"
	EventStorageDeposited   EventType = "storage_deposit"
	EventStorageWithdrawn   EventType = "storage_withdraw"
	EventConfigUpdated      EventType = "update_market_config"
	EventOwnershipTransfer  EventType = "transfer_ownership"
	EventContractApproved   EventType = "add_approved_nft_contract"
	EventContractUnapproved EventType = "remove_approved_nft_contract"
)

// Event is the persisted form of a market event. The same payload is
// emitted as a single json log line for downstream indexers.
type Event struct {
	Id     string      `json:"id" bson:"id"`
	Type   EventType   `json:"type" bson:"type"`
	Params interface{} `json:"params" bson:"params"`
	Time   time.Time   `json:"time" bson:"time"`
}

type EventEmitter interface {
	Emit(c bCtx.Ctx, typ EventType, params interface{})
}

type EventRepo interface {
	Insert(c bCtx.Ctx, event *Event) error
	FindAll(c bCtx.Ctx, optFns ...EventFindAllOptionsFunc) ([]*Event, error)
}

type EventUseCase interface {
	FindAll(c bCtx.Ctx, optFns ...EventFindAllOptionsFunc) ([]*Event, error)
}

type EventFindAllOptions struct {
	Type   *EventType
	Limit  *int
	Offset *int
}

type EventFindAllOptionsFunc func(*EventFindAllOptions) error

func GetEventFindAllOptions(opts ...EventFindAllOptionsFunc) (EventFindAllOptions, error) {
	res := EventFindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func EventWithType(typ EventType) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		options.Type = &typ
		return nil
	}
}

func EventWithPagination(offset, limit int) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		if offset < 0 || limit < 0 {
			return xerrors.Errorf("invalid pagination %d %d", offset, limit)
		}
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}
