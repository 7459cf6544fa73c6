package assistant

const (
	msgConfirmPrompt = "¿Lo registro?"

	msgConfirmed = "¡Listo! Ya lo anoté en tu planilla."

	msgCanceled = "Listo, lo descarté. No se registró nada."

	msgExpired = "Ese movimiento ya no está pendiente. Si querés registrarlo, mandámelo de nuevo."

	msgNoSpreadsheet = "Todavía no tenés una planilla vinculada, así que no pude guardarlo."

	msgSaveFailed = "No pude guardar el movimiento en tu planilla. Probá confirmarlo de nuevo en un rato."

	msgPendingFailed = "Entendí el movimiento pero no pude dejarlo pendiente de confirmación. ¿Me lo mandás de nuevo?"

	msgAudioFailed = "No pude escuchar bien tu audio. ¿Me lo escribís?"

	msgAudioEmpty = "Tu audio parece estar vacío. ¿Me lo mandás de nuevo?"

	labelConfirm = "✅ Confirmar"
	labelCancel  = "❌ Cancelar"
)
