package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type CreateWitnessRequest struct {
	PrimerNombre    string `json:"primer_nombre"`
	SegundoNombre   string `json:"segundo_nombre,omitempty"`
	PrimerApellido  string `json:"primer_apellido"`
	SegundoApellido string `json:"segundo_apellido,omitempty"`
	Telefono        string `json:"telefono"`
	Correo          string `json:"correo"`
	Password        string `json:"password"`
	PuestoID        string `json:"puesto_id"`
	Mesas           []int  `json:"mesas"`
}

type WitnessResponse struct {
	ID           string `json:"id"`
	Nombre       string `json:"nombre"`
	Correo       string `json:"correo"`
	Telefono     string `json:"telefono"`
	Municipio    string `json:"municipio"`
	PuestoID     string `json:"puesto_id,omitempty"`
	PuestoNombre string `json:"puesto_nombre,omitempty"`
	Mesas        []int  `json:"mesas,omitempty"`
}

type WitnessListResponse struct {
	Items []WitnessResponse `json:"items"`
}

type ReleaseMesaRequest struct {
	Mesa   int    `json:"mesa"`
	Motivo string `json:"motivo"`
}
