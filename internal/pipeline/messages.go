package pipeline

import (
	"errors"

	"github.com/Veraticus/plata/internal/llm"
)

const (
	msgGenericError = "Perdón, tuve un problema procesando tu mensaje. ¿Podés intentar de nuevo?"

	msgServiceBusy = "Perdón, en este momento no puedo procesar tu mensaje. Probá de nuevo en unos minutos."

	msgEntryError = "No pude interpretar uno de los movimientos de tu mensaje. ¿Podés escribirlo de nuevo con más detalle?"

	msgNothingToRecord = "No encontré ningún monto para registrar en tu mensaje. ¿Me decís cuánto fue?"
)

// apology picks the user-facing message for a failed pipeline run.
func apology(err error) string {
	if errors.Is(err, llm.ErrGateway) {
		return msgServiceBusy
	}
	return msgGenericError
}
