package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type Source string

const (
	SourceBCV     Source = "BCV"     // https://www.bcv.org.ve/
	SourceBinance Source = "BINANCE" // Binance P2P
)

func (s Source) String() string {
	return string(s)
}

// MarketAverageName is the reading name under which
// the Binance P2P market average is persisted
const MarketAverageName = "BINANCE_USDT"

// RateReading is a single persisted, timestamped, sourced rate value
// for a named currency. Immutable once stored
type RateReading struct {
	Name       string          `json:"nombre"`
	Value      decimal.Decimal `json:"valor"`
	ObservedAt time.Time       `json:"fecha_actualizacion"`
	Source     Source          `json:"fuente"`
}
