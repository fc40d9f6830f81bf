package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ReleaseRecordResponse struct {
	ID            string `json:"id"`
	TestigoID     string `json:"testigo_id"`
	TestigoNombre string `json:"testigo_nombre,omitempty"`
	PuestoID      string `json:"puesto_id"`
	PuestoNombre  string `json:"puesto_nombre,omitempty"`
	Mesa          int    `json:"mesa"`
	LiberadoPorID string `json:"liberado_por_id"`
	RolLiberador  string `json:"rol_liberador"`
	Motivo        string `json:"motivo"`
	CreadoEn      string `json:"creado_en"`
}

type ReleaseListResponse struct {
	Items []ReleaseRecordResponse `json:"items"`
}
