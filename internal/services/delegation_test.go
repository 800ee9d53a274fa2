package services

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
)

func newDelegationService(t *testing.T) (sqlmock.Sqlmock, *DelegationService) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return mock, NewDelegationService(db)
}

var delegationCols = []string{
	"id_delegation", "delegant_id", "delegataire_id", "id_entite", "id_role", "type_droit",
	"date_debut", "date_fin", "statut", "delegant_nom", "delegataire_nom", "entite_nom",
}

func delegationRow(id int64, statut string) *sqlmock.Rows {
	droit := models.DroitGenerateOrg
	return sqlmock.NewRows(delegationCols).
		AddRow(id, int64(1), int64(2), int64(10), nil, droit,
			"2026-09-01", nil, statut, "Dupont", "Durand", "UFR Sciences")
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestDelegationCreate_UnknownDroit(t *testing.T) {
	_, svc := newDelegationService(t)

	_, err := svc.Create(context.Background(), 1, &CreateDelegationInput{
		DelegataireID: 2,
		EntiteID:      10,
		TypeDroit:     "super-pouvoir",
		DateDebut:     "2026-09-01",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDelegationCreate_Success(t *testing.T) {
	mock, svc := newDelegationService(t)

	mock.ExpectQuery("INSERT INTO delegation").
		WillReturnRows(sqlmock.NewRows([]string{"id_delegation", "statut"}).
			AddRow(int64(3), models.DelegationStatutActive))
	mock.ExpectQuery("FROM delegation").
		WithArgs(int64(3)).
		WillReturnRows(delegationRow(3, models.DelegationStatutActive))

	d, err := svc.Create(context.Background(), 1, &CreateDelegationInput{
		DelegataireID: 2,
		EntiteID:      10,
		TypeDroit:     models.DroitGenerateOrg,
		DateDebut:     "2026-09-01",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.ID != 3 || d.Statut != models.DelegationStatutActive {
		t.Errorf("unexpected delegation: %+v", d)
	}
	if d.DelegantNom == nil || *d.DelegantNom != "Dupont" {
		t.Error("expected joined delegant name")
	}
}

// ---------------------------------------------------------------------------
// Revoke
// ---------------------------------------------------------------------------

func TestDelegationRevoke_MalformedID(t *testing.T) {
	_, svc := newDelegationService(t)

	_, err := svc.Revoke(context.Background(), "abc")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDelegationRevoke_Missing(t *testing.T) {
	mock, svc := newDelegationService(t)

	mock.ExpectExec("UPDATE delegation").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.Revoke(context.Background(), "404")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDelegationRevoke_AlreadyRevoked(t *testing.T) {
	mock, svc := newDelegationService(t)

	// Revoking an already-cancelled delegation succeeds silently and
	// overwrites the end date again.
	mock.ExpectExec("UPDATE delegation").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM delegation").
		WithArgs(int64(3)).
		WillReturnRows(delegationRow(3, models.DelegationStatutAnnulee))

	d, err := svc.Revoke(context.Background(), "3")
	if err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if d.Statut != models.DelegationStatutAnnulee {
		t.Errorf("statut = %s, want ANNULEE", d.Statut)
	}
}
