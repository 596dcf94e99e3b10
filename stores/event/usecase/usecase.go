package usecase

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/goroutine"
	"github.com/dropstation/marketapi/base/log"
	"github.com/dropstation/marketapi/domain"
)

type envelope struct {
	Type   domain.EventType `json:"type"`
	Params interface{}      `json:"params"`
}

type emitter struct {
	repo domain.EventRepo
}

// NewEmitter builds the market event emitter. Every event becomes one
// json log line for stream consumers and one persisted document for
// queries. Persistence happens off the request path and never fails
// the emitting operation.
func NewEmitter(repo domain.EventRepo) domain.EventEmitter {
	return &emitter{repo}
}

type impl struct {
	repo domain.EventRepo
}

// New builds the read side for the market activity feed.
func New(repo domain.EventRepo) domain.EventUseCase {
	return &impl{repo}
}

func (im *impl) FindAll(c bCtx.Ctx, optFns ...domain.EventFindAllOptionsFunc) ([]*domain.Event, error) {
	return im.repo.FindAll(c, optFns...)
}

func (im *emitter) Emit(c bCtx.Ctx, typ domain.EventType, params interface{}) {
	line, err := json.Marshal(envelope{Type: typ, Params: params})
	if err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"type": typ,
		}).Error("marshal event failed")
		return
	}
	c.Info(string(line))

	event := &domain.Event{
		Id:     uuid.NewString(),
		Type:   typ,
		Params: params,
		Time:   time.Now().UTC(),
	}
	goroutine.RecoverableGo(func() {
		bg := bCtx.Background()
		if err := im.repo.Insert(bg, event); err != nil {
			bg.WithFields(log.Fields{
				"err":  err,
				"type": typ,
			}).Error("persist event failed")
		}
	})
}
