package models

// AppointmentRequest is the body of POST /amor-saude/make_appointment.
type AppointmentRequest struct {
	RequesterID  string  `json:"solicitante_id" binding:"required"`
	MembershipID *string `json:"matricula"`
	Specialty    string  `json:"especialidade" binding:"required"`
	Date         string  `json:"data" binding:"required"`
	Time         string  `json:"hora" binding:"required"`
	PatientName  string  `json:"nome_paciente" binding:"required"`
	DocumentID   string  `json:"CPF" binding:"required"`
	BirthDate    string  `json:"data_nascimento"`
	Contact      string  `json:"contato"`
	Practitioner string  `json:"nome_profissional" binding:"required"`
}

// Booking describes a confirmed appointment as verified against the grid.
type Booking struct {
	Specialty    string `json:"especialidade"`
	Practitioner string `json:"nome_profissional"`
	Date         string `json:"data"`
	Time         string `json:"hora"`
	PatientName  string `json:"nome_paciente"`
	Verified     bool   `json:"verificado"`
}
