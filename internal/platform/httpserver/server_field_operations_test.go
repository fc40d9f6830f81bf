package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	releaseaudit "centinela/contexts/field-operations/release-audit"
	auditentities "centinela/contexts/field-operations/release-audit/domain/entities"
	auditports "centinela/contexts/field-operations/release-audit/ports"
	stationregistry "centinela/contexts/field-operations/station-registry"
	stationmemory "centinela/contexts/field-operations/station-registry/adapters/memory"
	tallyengine "centinela/contexts/field-operations/tally-engine"
	tallymemory "centinela/contexts/field-operations/tally-engine/adapters/memory"
	tallyentities "centinela/contexts/field-operations/tally-engine/domain/entities"
	tallyports "centinela/contexts/field-operations/tally-engine/ports"
	witnessassignment "centinela/contexts/field-operations/witness-assignment"
	witnessmemory "centinela/contexts/field-operations/witness-assignment/adapters/memory"
	witnessports "centinela/contexts/field-operations/witness-assignment/ports"
)

// The in-memory wiring mirrors what Postgres gives the API for free: the
// station registry reads claims from the assignment store, the tally
// engine reads claims and stations from it, and the audit module reads
// the release log it appends to.

type claimsFromAssignments struct {
	store *witnessmemory.Store
}

func (c claimsFromAssignments) ListClaimedTables(ctx context.Context, stationID string) ([]int, error) {
	assignments, err := c.store.ListAssignmentsByStation(ctx, stationID)
	if err != nil {
		return nil, err
	}
	claimed := make([]int, 0)
	for _, assignment := range assignments {
		claimed = append(claimed, assignment.Mesas...)
	}
	return claimed, nil
}

type assignmentsForTallies struct {
	store *witnessmemory.Store
}

func (a assignmentsForTallies) GetAssignmentByWitness(ctx context.Context, witnessID string) (tallyports.AssignmentView, bool, error) {
	assignment, found, err := a.store.GetAssignmentByWitness(ctx, witnessID)
	if err != nil || !found {
		return tallyports.AssignmentView{}, false, err
	}
	return tallyports.AssignmentView{
		WitnessID: assignment.WitnessID,
		StationID: assignment.StationID,
		Mesas:     assignment.Mesas,
	}, true, nil
}

type stationsForTallies struct {
	store *witnessmemory.Store
}

func (s stationsForTallies) GetStation(ctx context.Context, stationID string) (tallyports.StationView, error) {
	station, err := s.store.GetStation(ctx, stationID)
	if err != nil {
		return tallyports.StationView{}, err
	}
	return tallyports.StationView{
		StationID:  station.StationID,
		Puesto:     station.Puesto,
		Municipio:  station.Municipio,
		TotalMesas: station.TotalMesas,
	}, nil
}

type auditsFromReleases struct {
	store *witnessmemory.Store
}

func (a auditsFromReleases) ListReleases(_ context.Context, filter auditports.AuditFilter) ([]auditentities.ReleaseRecord, error) {
	audits := a.store.ListAudits(filter.StationID, filter.WitnessID)
	records := make([]auditentities.ReleaseRecord, 0, len(audits))
	for _, audit := range audits {
		records = append(records, auditentities.ReleaseRecord{
			AuditID:       audit.AuditID,
			WitnessID:     audit.WitnessID,
			StationID:     audit.StationID,
			Mesa:          audit.Mesa,
			LiberadoPorID: audit.LiberadoPorID,
			RolLiberador:  audit.RolLiberador,
			Motivo:        audit.Motivo,
			CreadoEn:      audit.CreadoEn,
		})
	}
	return records, nil
}

func newTestServer(t *testing.T) (*Server, *witnessmemory.Store) {
	t.Helper()

	witnessModule := witnessassignment.NewInMemoryModule(nil, nil)
	witnessStore := witnessModule.Store

	stationStore := stationmemory.NewStore(nil)
	stationModule := stationregistry.NewModule(stationregistry.Dependencies{
		Stations: stationStore,
		Claims:   claimsFromAssignments{store: witnessStore},
		Clock:    stationStore,
		IDGen:    stationStore,
	})

	tallyStore := tallymemory.NewStore(nil, []tallyentities.Candidate{
		{CandidateID: "cand-1", Nombre: "Beatriz Rojas"},
		{CandidateID: "cand-2", Nombre: "Carlos Méndez"},
	})
	tallyModule := tallyengine.NewModule(tallyengine.Dependencies{
		Tallies:     tallyStore,
		Assignments: assignmentsForTallies{store: witnessStore},
		Stations:    stationsForTallies{store: witnessStore},
		Roster:      tallyStore,
		Clock:       tallymemory.SystemClock{},
		IDGen:       tallymemory.UUIDGenerator{},
	})

	auditModule := releaseaudit.NewModule(releaseaudit.Dependencies{
		Audits: auditsFromReleases{store: witnessStore},
	})

	server := New(stationModule, witnessModule, tallyModule, auditModule, Authenticator{}, nil, "")
	return server, witnessStore
}

func doJSON(t *testing.T, server *Server, method, path string, headers map[string]string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func coordinatorHeaders() map[string]string {
	return map[string]string{
		"X-User-Id":        "coord-1",
		"X-User-Name":      "Laura Pérez",
		"X-User-Role":      "COORDINADOR_ELECTORAL",
		"X-User-Municipio": "Cali",
	}
}

func witnessHeaders(witnessID string) map[string]string {
	return map[string]string{
		"X-User-Id":        witnessID,
		"X-User-Role":      "TESTIGO_ELECTORAL",
		"X-User-Municipio": "Cali",
	}
}

func availableMesas(t *testing.T, server *Server, stationID string) []int {
	t.Helper()
	rec, body := doJSON(t, server, http.MethodGet, "/puestos-votacion/"+stationID+"/mesas-disponibles", coordinatorHeaders(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("availability failed: %d %v", rec.Code, body)
	}
	raw, ok := body["mesas_disponibles"].([]any)
	if !ok {
		t.Fatalf("unexpected availability payload: %v", body)
	}
	mesas := make([]int, 0, len(raw))
	for _, value := range raw {
		mesas = append(mesas, int(value.(float64)))
	}
	return mesas
}

func TestFieldOperationsEndToEnd(t *testing.T) {
	server, witnessStore := newTestServer(t)

	// Register a station with five mesas.
	rec, body := doJSON(t, server, http.MethodPost, "/puestos-votacion", coordinatorHeaders(), map[string]any{
		"departamento": "Valle del Cauca",
		"municipio":    "Cali",
		"puesto":       "IE Santa Librada",
		"mesas":        "5",
		"direccion":    "Calle 7 # 14-06",
		"latitud":      3.4516,
		"longitud":     -76.5320,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("station create failed: %d %v", rec.Code, body)
	}
	stationID := body["id"].(string)

	// The assignment module sees the registry through a projection; the
	// in-memory twin needs it seeded explicitly.
	witnessStore.SeedStation(witnessports.StationProjection{
		StationID:  stationID,
		Puesto:     "IE Santa Librada",
		Municipio:  "Cali",
		TotalMesas: 5,
	})

	// Witness A claims mesas 1 and 2.
	rec, body = doJSON(t, server, http.MethodPost, "/testigos", coordinatorHeaders(), map[string]any{
		"primer_nombre":   "Ana",
		"primer_apellido": "García",
		"telefono":        "3001234567",
		"correo":          "ana@example.com",
		"password":        "secreta-123",
		"puesto_id":       stationID,
		"mesas":           []int{1, 2},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("witness A create failed: %d %v", rec.Code, body)
	}
	witnessA := body["id"].(string)

	// Witness B overlaps on mesa 2 and must be rejected naming it.
	rec, body = doJSON(t, server, http.MethodPost, "/testigos", coordinatorHeaders(), map[string]any{
		"primer_nombre":   "Berta",
		"primer_apellido": "Luna",
		"telefono":        "3007654321",
		"correo":          "berta@example.com",
		"password":        "secreta-456",
		"puesto_id":       stationID,
		"mesas":           []int{2, 3},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for overlapping mesas, got %d %v", rec.Code, body)
	}
	if message, _ := body["message"].(string); !strings.Contains(message, "2") {
		t.Fatalf("conflict message must name mesa 2, got %q", body["message"])
	}

	if mesas := availableMesas(t, server, stationID); !reflect.DeepEqual(mesas, []int{3, 4, 5}) {
		t.Fatalf("expected disponibles [3 4 5], got %v", mesas)
	}

	// Witness A submits mesa 1 once.
	tallyBody := map[string]any{
		"candidatos": []map[string]any{
			{"id": "cand-1", "votos": 120},
			{"id": "cand-2", "votos": 95},
		},
		"voto_blanco": 4,
		"voto_nulo":   2,
	}
	submitPath := fmt.Sprintf("/resultados-mesas/mesa/%s/1", stationID)
	rec, body = doJSON(t, server, http.MethodPost, submitPath, witnessHeaders(witnessA), tallyBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("tally submit failed: %d %v", rec.Code, body)
	}
	if body["detail"] != "Resultados enviados correctamente." {
		t.Fatalf("unexpected submit detail: %v", body["detail"])
	}

	rec, body = doJSON(t, server, http.MethodPost, submitPath, witnessHeaders(witnessA), tallyBody)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on resubmission, got %d %v", rec.Code, body)
	}
	if body["message"] != "Los resultados de esta mesa ya fueron enviados." {
		t.Fatalf("unexpected resubmission message: %v", body["message"])
	}

	// The form reflects the recorded counts beside the editable flag.
	rec, body = doJSON(t, server, http.MethodGet, submitPath, witnessHeaders(witnessA), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("mesa form failed: %d %v", rec.Code, body)
	}
	votos, ok := body["votos"].(map[string]any)
	if !ok || votos["cand-1"] != float64(120) || votos["cand-2"] != float64(95) {
		t.Fatalf("unexpected form votos: %v", body["votos"])
	}
	if body["voto_blanco"] != float64(4) || body["voto_nulo"] != float64(2) {
		t.Fatalf("unexpected blank/null counts: %v %v", body["voto_blanco"], body["voto_nulo"])
	}
	if body["estado"] != "ENVIADA" || body["editable"] != false {
		t.Fatalf("expected sealed ENVIADA form, got estado=%v editable=%v", body["estado"], body["editable"])
	}

	// Release mesa 1; the recorded tally stays untouched but the claim
	// becomes available again.
	rec, body = doJSON(t, server, http.MethodPost, "/testigos/"+witnessA+"/liberar-mesa", coordinatorHeaders(), map[string]any{
		"mesa":   1,
		"motivo": "error de conteo",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("release failed: %d %v", rec.Code, body)
	}
	if body["detail"] != "Mesa liberada correctamente." {
		t.Fatalf("unexpected release detail: %v", body["detail"])
	}

	if mesas := availableMesas(t, server, stationID); !reflect.DeepEqual(mesas, []int{1, 3, 4, 5}) {
		t.Fatalf("expected disponibles [1 3 4 5] after release, got %v", mesas)
	}

	// Exactly one audit row, visible through the audit endpoint.
	rec, body = doJSON(t, server, http.MethodGet, "/auditoria-liberaciones?puesto_id="+stationID, coordinatorHeaders(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("audit list failed: %d %v", rec.Code, body)
	}
	items, ok := body["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one audit record, got %v", body)
	}
	record := items[0].(map[string]any)
	if record["motivo"] != "error de conteo" || record["mesa"] != float64(1) {
		t.Fatalf("unexpected audit record: %v", record)
	}
}

func TestSubmitTallyRejectsRepeatedCandidates(t *testing.T) {
	server, witnessStore := newTestServer(t)

	rec, body := doJSON(t, server, http.MethodPost, "/puestos-votacion", coordinatorHeaders(), map[string]any{
		"departamento": "Valle del Cauca",
		"municipio":    "Cali",
		"puesto":       "IE Normal Superior",
		"mesas":        "3",
		"direccion":    "Cra 34 # 12-60",
		"latitud":      3.4372,
		"longitud":     -76.5225,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("station create failed: %d %v", rec.Code, body)
	}
	stationID := body["id"].(string)
	witnessStore.SeedStation(witnessports.StationProjection{
		StationID:  stationID,
		Puesto:     "IE Normal Superior",
		Municipio:  "Cali",
		TotalMesas: 3,
	})

	rec, body = doJSON(t, server, http.MethodPost, "/testigos", coordinatorHeaders(), map[string]any{
		"primer_nombre":   "Celia",
		"primer_apellido": "Mora",
		"telefono":        "3009876543",
		"correo":          "celia@example.com",
		"password":        "secreta-789",
		"puesto_id":       stationID,
		"mesas":           []int{1},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("witness create failed: %d %v", rec.Code, body)
	}
	witnessID := body["id"].(string)

	// The same candidate listed twice must fail before any counting.
	rec, body = doJSON(t, server, http.MethodPost, fmt.Sprintf("/resultados-mesas/mesa/%s/1", stationID), witnessHeaders(witnessID), map[string]any{
		"candidatos": []map[string]any{
			{"id": "cand-1", "votos": 50},
			{"id": "cand-1", "votos": 70},
		},
		"voto_blanco": 0,
		"voto_nulo":   0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for repeated candidates, got %d %v", rec.Code, body)
	}
	if body["message"] != "Los candidatos no pueden repetirse." {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestRequestsWithoutIdentityAreRejected(t *testing.T) {
	server, _ := newTestServer(t)

	rec, _ := doJSON(t, server, http.MethodGet, "/puestos-votacion", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity headers, got %d", rec.Code)
	}

	rec, _ = doJSON(t, server, http.MethodGet, "/puestos-votacion", map[string]string{
		"X-User-Id":   "u-1",
		"X-User-Role": "NO_SUCH_ROLE",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown role, got %d", rec.Code)
	}
}
