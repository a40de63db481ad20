package maintenance

import (
	"github.com/stellar-collector/internal/config"
	"github.com/stellar-collector/internal/gate"
	"github.com/stellar-collector/internal/logging"
	"github.com/stellar-collector/internal/storage"
)

// OpenJobs opens all four datastores and builds a job set around them. It is
// used by the one-shot runners; the collector service wires its own stores
// because ingestion shares them. The returned cleanup closes every datastore
// that was opened.
func OpenJobs(cfg *config.Config, logger *logging.Logger) (*Jobs, func(), error) {
	var dbs []*storage.DB
	closeAll := func() {
		for _, db := range dbs {
			db.Close()
		}
	}

	open := func(path string) (*storage.DB, error) {
		db, err := storage.Open(path)
		if err != nil {
			return nil, err
		}
		dbs = append(dbs, db)
		return db, nil
	}

	systemsDB, err := open(cfg.SystemsDBPath())
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	locationsDB, err := open(cfg.LocationsDBPath())
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	stationsDB, err := open(cfg.StationsDBPath())
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	tradeDB, err := open(cfg.TradeDBPath())
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	systems, err := storage.NewSystemsStore(systemsDB)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	locations, err := storage.NewLocationsStore(locationsDB)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	stations, err := storage.NewStationsStore(stationsDB)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	trade, err := storage.NewTradeStore(tradeDB)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	return NewJobs(cfg, systems, locations, stations, trade, gate.New(), logger), closeAll, nil
}
