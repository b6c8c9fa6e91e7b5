package server

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tasa is one official rate entry as served by /tasas
type Tasa struct {
	Nombre             string          `json:"nombre"`
	Valor              decimal.Decimal `json:"valor"`
	FechaActualizacion time.Time       `json:"fecha_actualizacion"`
	Fuente             string          `json:"fuente"`
}

// Promedio is one market average entry as served by /binance-promedio
type Promedio struct {
	Nombre             string          `json:"nombre"`
	Promedio           decimal.Decimal `json:"promedio"`
	FechaActualizacion time.Time       `json:"fecha_actualizacion"`
	Fuente             string          `json:"fuente"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
