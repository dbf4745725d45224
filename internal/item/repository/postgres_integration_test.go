//go:build integration

package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"central-lost-found/backend/internal/db"
	"central-lost-found/backend/internal/db/migrate"
	"central-lost-found/backend/internal/item/domain"
	"central-lost-found/backend/internal/item/repository"
)

type PostgresRepositorySuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *sql.DB
	repo      *repository.PostgresRepository
}

func TestPostgresRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRepositorySuite))
}

func (s *PostgresRepositorySuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("lostfound_db"),
		tcpostgres.WithUsername("lostfound"),
		tcpostgres.WithPassword("lostfoundpass"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.Require().NoError(migrate.Up(dsn))

	s.db, err = db.Open(ctx, dsn)
	s.Require().NoError(err)
	s.repo = repository.NewPostgresRepository(s.db)
}

func (s *PostgresRepositorySuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		s.NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *PostgresRepositorySuite) SetupTest() {
	_, err := s.db.Exec("TRUNCATE found_items")
	s.Require().NoError(err)
}

func strPtr(v string) *string { return &v }

func (s *PostgresRepositorySuite) insert(item domain.FoundItem) string {
	id, err := s.repo.Insert(context.Background(), &item)
	s.Require().NoError(err)
	return id
}

func newItem(title, color, region string, date time.Time) domain.FoundItem {
	return domain.FoundItem{
		Title:           title,
		DominantColor:   color,
		LocationFound:   "Rynek Główny",
		DateFound:       date,
		Voivodeship:     region,
		ReportingEntity: "um.krakow.pl",
	}
}

func (s *PostgresRepositorySuite) TestInsertGetRoundTrip() {
	ctx := context.Background()
	in := domain.FoundItem{
		Title:            "Plecak niebieski",
		Category:         "Torby",
		DominantColor:    "niebieski",
		Description:      strPtr("plecak z laptopem"),
		DistinctiveMarks: nil,
		LocationFound:    "Tramwaj 18",
		DateFound:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Voivodeship:      "Małopolskie",
		ReportingEntity:  "um.krakow.pl",
	}
	id := s.insert(in)
	s.NotEmpty(id)

	got, err := s.repo.GetByID(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	in.ID = id
	s.Equal(in, *got)
}

func (s *PostgresRepositorySuite) TestGetByID_NotFound() {
	got, err := s.repo.GetByID(context.Background(), "6f1c1c1e-1111-4b4b-8888-000000000000")
	s.Require().NoError(err)
	s.Nil(got)

	got, err = s.repo.GetByID(context.Background(), "not-a-uuid")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *PostgresRepositorySuite) TestQueryFilters() {
	ctx := context.Background()
	d := func(day int) time.Time { return time.Date(2026, 2, day, 0, 0, 0, 0, time.UTC) }
	s.insert(newItem("Parasol", "czarny", "Małopolskie", d(1)))
	s.insert(newItem("Rękawiczki", "czarny", "Pomorskie", d(5)))
	s.insert(newItem("Szalik", "czerwony", "Małopolskie", d(10)))

	all, err := s.repo.Query(ctx, domain.Filter{Limit: 50})
	s.Require().NoError(err)
	s.Len(all, 3)
	s.Equal("Szalik", all[0].Title, "newest first")

	black, err := s.repo.Query(ctx, domain.Filter{DominantColor: "czarny", Voivodeship: "Małopolskie", Limit: 50})
	s.Require().NoError(err)
	s.Require().Len(black, 1)
	s.Equal("Parasol", black[0].Title)

	from, to := d(5), d(10)
	ranged, err := s.repo.Query(ctx, domain.Filter{DateFrom: &from, DateTo: &to, Limit: 50})
	s.Require().NoError(err)
	s.Len(ranged, 2, "date range is inclusive on both ends")

	page, err := s.repo.Query(ctx, domain.Filter{Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal("Rękawiczki", page[0].Title)
}

func (s *PostgresRepositorySuite) TestSearch() {
	ctx := context.Background()
	d := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	want := s.insert(newItem("Plecak niebieski", "niebieski", "Mazowieckie", d))
	marks := newItem("Torba", "brązowy", "Mazowieckie", d)
	marks.DistinctiveMarks = strPtr("naszywka 100% wełna")
	marksID := s.insert(marks)
	s.insert(newItem("Portfel", "czarny", "Mazowieckie", d))

	got, err := s.repo.Search(ctx, "plecak")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(want, got[0].ID)

	got, err = s.repo.Search(ctx, "100%")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(marksID, got[0].ID)

	got, err = s.repo.Search(ctx, "hulajnoga")
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *PostgresRepositorySuite) TestExportAll() {
	d := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	s.insert(newItem("A", "biały", "Pomorskie", d))
	s.insert(newItem("B", "biały", "Pomorskie", d))

	got, err := s.repo.ExportAll(context.Background())
	s.Require().NoError(err)
	s.Len(got, 2)
}
