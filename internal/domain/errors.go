package domain

import "errors"

// Errores sentinel del pipeline. Se comprueban con errors.Is; el wrapping
// con contexto lo hace cada paquete con fmt.Errorf("pkg.Func: %w", err).
var (
	// ErrMalformedMarket: un valor numérico del mercado está fuera de dominio
	// (precio fuera de [0,1], volumen negativo). El mercado se salta.
	ErrMalformedMarket = errors.New("malformed market data")

	// ErrMalformedPrice: el precio resuelto está fuera de [0,1]. Indica un
	// registro corrupto upstream; el mercado se salta.
	ErrMalformedPrice = errors.New("malformed price")

	// ErrHistoryUnavailable: el fetch del histórico agotó los reintentos.
	// No es fatal — solo el fetch del catálogo aborta el run.
	ErrHistoryUnavailable = errors.New("price history unavailable")
)
