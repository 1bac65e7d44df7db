package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/acgeners/amor-saude/models"
	"github.com/acgeners/amor-saude/services/agenda"
)

// AgendaHandler exposes the slot search and booking operations over HTTP.
// Every failure resolves to one of the documented response shapes; a raw
// error never crosses this boundary.
type AgendaHandler struct {
	Service agenda.Service
	Logger  *zap.Logger
}

func NewAgendaHandler(svc agenda.Service, logger *zap.Logger) *AgendaHandler {
	return &AgendaHandler{Service: svc, Logger: logger}
}

// FindSlotHandler handles POST /amor-saude/find_slot. The response always
// carries a "status" of ok, nenhum or erro, and always with HTTP 200 so the
// conversational frontend can branch on the body alone.
func (h *AgendaHandler) FindSlotHandler(c *gin.Context) {
	var req models.SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"status":   "erro",
			"mensagem": "Requisição inválida: " + err.Error(),
		})
		return
	}

	candidate, err := h.Service.FindEarliestSlot(c.Request.Context(), req)
	if err != nil {
		ae := agenda.AsAgendaError(err)
		if ae.Code == agenda.CodeNotFound {
			c.JSON(http.StatusOK, gin.H{
				"status":        "nenhum",
				"mensagem":      ae.Message,
				"especialidade": req.Specialty,
				"data":          req.Date,
			})
			return
		}
		h.Logger.Warn("Slot search failed",
			zap.String("code", ae.Code),
			zap.String("specialty", req.Specialty),
			zap.String("message", ae.Message),
		)
		c.JSON(http.StatusOK, gin.H{
			"status":        "erro",
			"mensagem":      ae.Message,
			"especialidade": req.Specialty,
			"data":          req.Date,
		})
		return
	}

	resp := gin.H{
		"status":          "ok",
		"especialidade":   req.Specialty,
		"medico":          candidate.Practitioner,
		"data":            candidate.Date,
		"proximo_horario": candidate.Time,
	}
	if candidate.Room != "" {
		resp["consultorio"] = candidate.Room
	}
	c.JSON(http.StatusOK, resp)
}

// MakeAppointmentHandler handles POST /amor-saude/make_appointment.
func (h *AgendaHandler) MakeAppointmentHandler(c *gin.Context) {
	var req models.AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"erro": "Requisição inválida: " + err.Error()})
		return
	}

	booking, err := h.Service.BookAppointment(c.Request.Context(), req)
	if err != nil {
		ae := agenda.AsAgendaError(err)
		h.Logger.Warn("Booking failed",
			zap.String("code", ae.Code),
			zap.String("practitioner", req.Practitioner),
			zap.String("message", ae.Message),
		)
		c.JSON(http.StatusOK, gin.H{"erro": ae.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "confirmado",
		"detalhes": booking,
	})
}
