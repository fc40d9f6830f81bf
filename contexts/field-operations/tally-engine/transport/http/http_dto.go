package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

// CandidateVotesRequest is one entry of the submitted tally list. The
// wire format carries candidates as a list so repeated ids are visible
// at the boundary instead of collapsing inside a JSON object.
type CandidateVotesRequest struct {
	ID    string `json:"id"`
	Votos int    `json:"votos"`
}

type SubmitTallyRequest struct {
	Candidatos []CandidateVotesRequest `json:"candidatos"`
	VotoBlanco int                     `json:"voto_blanco"`
	VotoNulo   int                     `json:"voto_nulo"`
}

type CandidateResponse struct {
	ID      string `json:"id"`
	Nombre  string `json:"nombre"`
	Partido string `json:"partido,omitempty"`
}

type MesaResultResponse struct {
	ID         string         `json:"id"`
	PuestoID   string         `json:"puesto_id"`
	Municipio  string         `json:"municipio"`
	Mesa       int            `json:"mesa"`
	Votos      map[string]int `json:"votos"`
	VotoBlanco int            `json:"voto_blanco"`
	VotoNulo   int            `json:"voto_nulo"`
	TestigoID  string         `json:"testigo_id"`
	Estado     string         `json:"estado"`
	EnviadoEn  string         `json:"enviado_en,omitempty"`
}

type MesaStatusResponse struct {
	PuestoID     string `json:"puesto_id"`
	PuestoNombre string `json:"puesto_nombre"`
	Mesa         int    `json:"mesa"`
	Estado       string `json:"estado"`
}

type MesaListResponse struct {
	Items []MesaStatusResponse `json:"items"`
}

type ResultListResponse struct {
	Items []MesaResultResponse `json:"items"`
}

type MesaFormResponse struct {
	PuestoID     string              `json:"puesto_id"`
	PuestoNombre string              `json:"puesto_nombre"`
	Municipio    string              `json:"municipio"`
	Mesa         int                 `json:"mesa"`
	Candidatos   []CandidateResponse `json:"candidatos"`
	Votos        map[string]int      `json:"votos"`
	VotoBlanco   int                 `json:"voto_blanco"`
	VotoNulo     int                 `json:"voto_nulo"`
	Estado       string              `json:"estado"`
	Editable     bool                `json:"editable"`
}
