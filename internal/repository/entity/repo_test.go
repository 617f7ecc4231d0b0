package entity

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/kailas-cloud/searchintent/internal/domain"
	domentity "github.com/kailas-cloud/searchintent/internal/domain/entity"
	"github.com/kailas-cloud/searchintent/internal/domain/slug"
)

var columns = []string{"id", "name", "slug", "country_slug", "singular_name", "plural_name"}

func newTestRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = raw.Close() })
	return New(sqlx.NewDb(raw, "postgres"), slug.DefaultMapping()), mock
}

func TestLookup_Places(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM places")).
		WithArgs(sqlmock.AnyArg(), DefaultLimit, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("1", "Manchester", "manchester", "england", "", "").
			AddRow("9", "Wales", "wales", "", "", ""))

	recs, err := repo.Lookup(context.Background(), domentity.Place, "manchester")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Kind() != domentity.Place || recs[0].CountrySlug() != "england" {
		t.Errorf("unexpected record %+v", recs[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestLookup_CategoriesCarryNameForms(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories")).
		WithArgs(sqlmock.AnyArg(), DefaultLimit, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("10", "Washing Machines", "washing-machines", "", "Washing Machine", "Washing Machines"))

	recs, err := repo.Lookup(context.Background(), domentity.Category, "washing machine")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].SingularName() != "Washing Machine" || !recs[0].HasSingularName() {
		t.Errorf("unexpected records %+v", recs)
	}
}

func TestLookup_Brands(t *testing.T) {
	repo, mock := newTestRepo(t)
	repo.WithLimit(5)
	mock.ExpectQuery(regexp.QuoteMeta("FROM brands")).
		WithArgs(sqlmock.AnyArg(), 5, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("20", "Bosch", "bosch", "", "", ""))

	recs, err := repo.Lookup(context.Background(), domentity.Brand, "bosch")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].Kind() != domentity.Brand || recs[0].Slug() != "bosch" {
		t.Errorf("unexpected records %+v", recs)
	}
}

func TestLookup_QueryError(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM places")).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Lookup(context.Background(), domentity.Place, "leeds")
	var lookupErr *domain.LookupError
	if !errors.As(err, &lookupErr) || lookupErr.Kind != "place" {
		t.Fatalf("expected LookupError for place, got %v", err)
	}
}

func TestLookup_UnknownKind(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Lookup(context.Background(), domentity.Kind("store"), "leeds")
	if !errors.Is(err, domain.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestLookup_EmptyTextSkipsQuery(t *testing.T) {
	repo, mock := newTestRepo(t)
	recs, err := repo.Lookup(context.Background(), domentity.Place, "")
	if err != nil || recs != nil {
		t.Fatalf("expected no records and no error, got %v, %v", recs, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestLikePatterns(t *testing.T) {
	got := likePatterns([]string{"tv", "televisions"})
	if len(got) != 2 || got[0] != "%tv%" || got[1] != "%televisions%" {
		t.Errorf("likePatterns = %v", got)
	}
}

func TestPrefixPatterns(t *testing.T) {
	got := prefixPatterns([]string{"new", "newport"})
	if len(got) != 2 || got[0] != "new%" || got[1] != "newport%" {
		t.Errorf("prefixPatterns = %v", got)
	}
}

// arrayContaining matches a pq array argument holding every element.
type arrayContaining []string

func (a arrayContaining) Match(v driver.Value) bool {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case []byte:
		s = string(x)
	default:
		return false
	}
	for _, want := range a {
		if !strings.Contains(s, `"`+want+`"`) {
			return false
		}
	}
	return true
}

func TestLookup_RanksExactAndPrefixHitsBeforeLimit(t *testing.T) {
	repo, mock := newTestRepo(t)
	repo.WithLimit(1)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY (lower(name) = ANY($3) OR slug = ANY($3)) DESC")).
		WithArgs(arrayContaining{"%new%"}, 1, arrayContaining{"new"}, arrayContaining{"new%"}).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("8", "Newport", "newport", "wales", "", ""))

	recs, err := repo.Lookup(context.Background(), domentity.Place, "new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].Name() != "Newport" {
		t.Errorf("unexpected records %+v", recs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestLookup_ShortTokenReachesBrands(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM brands")).
		WithArgs(arrayContaining{"%lg%", "%manchester%"}, DefaultLimit, arrayContaining{"lg"}, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("21", "LG", "lg", "", "", ""))

	recs, err := repo.Lookup(context.Background(), domentity.Brand, "manchester lg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].Slug() != "lg" {
		t.Errorf("unexpected records %+v", recs)
	}
}
