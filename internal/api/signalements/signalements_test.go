package signalements

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/univ-annuaire/univ-annuaire/internal/auth"
	"github.com/univ-annuaire/univ-annuaire/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Columns of the signalement select with the joined participant names.
var signalementCols = []string{
	"id_signalement", "auteur_id", "traitant_id", "cloture_par_id", "id_entite_cible",
	"description", "statut", "date_creation", "date_prise_en_charge", "date_traitement",
	"commentaire_prise_en_charge", "commentaire_cloture",
	"auteur_nom", "auteur_prenom", "traitant_nom", "traitant_prenom", "cloture_nom", "cloture_prenom",
}

func injectUser(user *auth.CurrentUser) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CurrentUserKey, user)
		c.Set(middleware.UserIDKey, user.UserID)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestList_FilterByStatut(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM signalement").
		WithArgs("OUVERT").
		WillReturnRows(sqlmock.NewRows(signalementCols).
			AddRow(1, 7, nil, nil, 12, "Mauvais responsable affiche", "OUVERT", time.Now(),
				nil, nil, nil, nil, "Durand", "Claire", nil, nil, nil, nil))

	r := gin.New()
	r.GET("/signalements", ListHandler(db))

	w := doRequest(r, http.MethodGet, "/signalements?statut=OUVERT", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Items []struct {
			Statut    string  `json:"statut"`
			AuteurNom *string `json:"auteur_nom"`
		} `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Statut != "OUVERT" {
		t.Fatalf("items = %+v, want one OUVERT signalement", resp.Items)
	}
	if resp.Items[0].AuteurNom == nil || *resp.Items[0].AuteurNom != "Durand" {
		t.Errorf("auteur_nom = %v, want Durand", resp.Items[0].AuteurNom)
	}
}

func TestCreate_CallerBecomesAuteur(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("INSERT INTO signalement").
		WithArgs(int64(7), int64(12), "Le departement n'apparait plus").
		WillReturnRows(sqlmock.NewRows([]string{"id_signalement", "statut", "date_creation"}).
			AddRow(3, "OUVERT", time.Now()))

	user := &auth.CurrentUser{UserID: 7, Login: "cdurand"}

	r := gin.New()
	r.POST("/signalements", injectUser(user), CreateHandler(db))

	body := []byte(`{"id_entite_cible":12,"description":"Le departement n'apparait plus"}`)
	w := doRequest(r, http.MethodPost, "/signalements", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", w.Code, w.Body.String())
	}

	var created struct {
		AuteurID int64  `json:"auteur_id"`
		Statut   string `json:"statut"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.AuteurID != 7 {
		t.Errorf("auteur_id = %d, want the caller 7", created.AuteurID)
	}
	if created.Statut != "OUVERT" {
		t.Errorf("statut = %q, want OUVERT", created.Statut)
	}
}

func TestCreate_MissingDescription(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	user := &auth.CurrentUser{UserID: 7, Login: "cdurand"}

	r := gin.New()
	r.POST("/signalements", injectUser(user), CreateHandler(db))

	w := doRequest(r, http.MethodPost, "/signalements", []byte(`{"id_entite_cible":12}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without a description", w.Code)
	}
}

func TestUpdate_EnCoursStampsTraitant(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE signalement").
		WithArgs(int64(3), int64(9), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM signalement").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(signalementCols).
			AddRow(3, 7, 9, nil, 12, "Le departement n'apparait plus", "EN_COURS", time.Now(),
				time.Now(), nil, nil, nil, "Durand", "Claire", "Martin", "Nadia", nil, nil))

	user := &auth.CurrentUser{UserID: 9, Login: "nmartin"}

	r := gin.New()
	r.PATCH("/signalements/:id", injectUser(user), UpdateHandler(db))

	w := doRequest(r, http.MethodPatch, "/signalements/3", []byte(`{"statut":"EN_COURS"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		TraitantID *int64 `json:"traitant_id"`
		Statut     string `json:"statut"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.TraitantID == nil || *resp.TraitantID != 9 {
		t.Errorf("traitant_id = %v, want the caller 9", resp.TraitantID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestUpdate_ClotureWithoutComment(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	user := &auth.CurrentUser{UserID: 9, Login: "nmartin"}

	r := gin.New()
	r.PATCH("/signalements/:id", injectUser(user), UpdateHandler(db))

	w := doRequest(r, http.MethodPatch, "/signalements/3", []byte(`{"statut":"CLOTURE"}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 when closing without a comment", w.Code)
	}
}

func TestUpdate_UnknownStatut(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	user := &auth.CurrentUser{UserID: 9, Login: "nmartin"}

	r := gin.New()
	r.PATCH("/signalements/:id", injectUser(user), UpdateHandler(db))

	w := doRequest(r, http.MethodPatch, "/signalements/3", []byte(`{"statut":"PERDU"}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for a statut outside the lifecycle", w.Code)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE signalement").
		WithArgs(int64(99), int64(9), nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	user := &auth.CurrentUser{UserID: 9, Login: "nmartin"}

	r := gin.New()
	r.PATCH("/signalements/:id", injectUser(user), UpdateHandler(db))

	w := doRequest(r, http.MethodPatch, "/signalements/99", []byte(`{"statut":"EN_COURS"}`))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
