package hub

import (
	"errors"

	"homesense/pkg/db"
	"homesense/pkg/models"
)

// ErrStorageUnavailable wraps any storage failure on the ingest or
// query path. Callers drop the current message/request and carry on.
var ErrStorageUnavailable = errors.New("storage unavailable")

type IIngest interface {
	StoreReading(reading *models.Reading) error
}

type IQuery interface {
	ListRecent(limit int) ([]models.Reading, error)
	LatestPerRoom() ([]models.Reading, error)
	LatestReading() (*models.Reading, error)
	Totals() (readings int64, alerts int64, err error)
}

type IStats interface {
	StatsByRoom() ([]models.RoomStatistics, error)
}

type Hub struct {
	Db     db.DB
	Ingest IIngest
	Query  IQuery
	Stats  IStats
}

type ServiceOpts struct {
	Ingest IIngest
	Query  IQuery
	Stats  IStats
}

func (h *Hub) WithServices(opts ServiceOpts) *Hub {
	if opts.Ingest != nil {
		h.Ingest = opts.Ingest
	}
	if opts.Query != nil {
		h.Query = opts.Query
	}
	if opts.Stats != nil {
		h.Stats = opts.Stats
	}
	return h
}
