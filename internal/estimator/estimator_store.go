package estimator

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/AlphaDevs01/controleProducao/internal/repository"
	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

// The estimator state is stored as a single JSONB document in a one-row
// table. There is exactly one state tree per deployment.
const stateRowID = 1

type Store struct {
	r *repository.Repository
}

func NewStore(r *repository.Repository) *Store {
	return &Store{r: r}
}

// Load reads the persisted state tree. A missing row yields an empty state
// rather than an error so a fresh database starts with a blank estimator.
func (s *Store) Load() (models.EstimateState, error) {
	state := models.EstimateState{
		Products:       []models.CatalogProduct{},
		RouteTemplates: []models.RouteTemplate{},
		Projects:       []models.Project{},
	}

	var raw []byte
	found, err := s.r.GoquDBWrapper.From("estimator_state").
		Select("state").
		Where(goqu.Ex{"id": stateRowID}).
		ScanVal(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return state, nil
		}
		return state, fmt.Errorf("failed to load estimator state: %w", err)
	}
	if !found || len(raw) == 0 {
		return state, nil
	}

	if err := json.Unmarshal(raw, &state); err != nil {
		return state, fmt.Errorf("failed to decode estimator state: %w", err)
	}
	return state, nil
}

// Save upserts the whole state tree in one statement.
func (s *Store) Save(state models.EstimateState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode estimator state: %w", err)
	}

	_, err = s.r.GoquDBWrapper.Insert("estimator_state").
		Rows(goqu.Record{"id": stateRowID, "state": raw}).
		OnConflict(goqu.DoUpdate("id", goqu.Record{
			"state":      raw,
			"updated_at": goqu.L("NOW()"),
		})).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to save estimator state: %w", err)
	}
	return nil
}
