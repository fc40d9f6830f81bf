package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateStationRequest struct {
	Nombre       string  `json:"nombre,omitempty"`
	Departamento string  `json:"departamento"`
	Municipio    string  `json:"municipio"`
	Puesto       string  `json:"puesto"`
	Mesas        string  `json:"mesas"`
	Direccion    string  `json:"direccion"`
	Latitud      float64 `json:"latitud"`
	Longitud     float64 `json:"longitud"`
}

type StationResponse struct {
	ID              string  `json:"id"`
	Nombre          string  `json:"nombre"`
	Departamento    string  `json:"departamento"`
	Municipio       string  `json:"municipio"`
	Puesto          string  `json:"puesto"`
	Mesas           int     `json:"mesas"`
	Direccion       string  `json:"direccion"`
	Latitud         float64 `json:"latitud"`
	Longitud        float64 `json:"longitud"`
	CreadoPorID     string  `json:"creado_por_id"`
	CreadoPorNombre string  `json:"creado_por_nombre"`
	CreadoEn        string  `json:"creado_en"`
}

type StationListResponse struct {
	Items []StationResponse `json:"items"`
}

type AvailableTablesResponse struct {
	PuestoID         string `json:"puesto_id"`
	MesasTotales     int    `json:"mesas_totales"`
	MesasAsignadas   []int  `json:"mesas_asignadas"`
	MesasDisponibles []int  `json:"mesas_disponibles"`
}
