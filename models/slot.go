package models

// SlotRequest is the body of POST /amor-saude/find_slot. Field names follow
// the wire contract consumed by the conversational frontend.
type SlotRequest struct {
	RequesterID  string  `json:"solicitante_id" binding:"required"`
	Specialty    string  `json:"especialidade" binding:"required"`
	Date         *string `json:"data"`
	MinutesAhead *int    `json:"minutos_ate_disponivel"`
}

// SlotCandidate is one bookable (date, time, practitioner) triple extracted
// from the schedule grid. Room is best-effort and may be empty.
type SlotCandidate struct {
	Date         string `json:"data"`
	Time         string `json:"proximo_horario"`
	Practitioner string `json:"medico"`
	Room         string `json:"consultorio,omitempty"`
}

// ScheduleBlock is the grid's rendering unit for one practitioner on one
// date: a title panel plus one button per open time. Ephemeral; re-derived
// from the DOM on every read.
type ScheduleBlock struct {
	Practitioner string
	Specialty    string
	Times        []string
	Room         string
}
