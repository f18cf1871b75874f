package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	mongoadapter "github.com/lesquel/mesaYa-Res-sub003/internal/adapters/mongo"
	"github.com/lesquel/mesaYa-Res-sub003/internal/adapters/postgres"
	"github.com/lesquel/mesaYa-Res-sub003/internal/adapters/rabbit"
	redisadapter "github.com/lesquel/mesaYa-Res-sub003/internal/adapters/redis"
	"github.com/lesquel/mesaYa-Res-sub003/internal/config"
	httphandler "github.com/lesquel/mesaYa-Res-sub003/internal/http"
	"github.com/lesquel/mesaYa-Res-sub003/internal/observability"
	"github.com/lesquel/mesaYa-Res-sub003/internal/ratelimit"
	"github.com/lesquel/mesaYa-Res-sub003/internal/scheduling"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const schemaDDL = `
CREATE EXTENSION IF NOT EXISTS btree_gist;

CREATE TABLE restaurants (
	id         UUID PRIMARY KEY,
	owner_id   UUID NOT NULL,
	open_time  TEXT,
	close_time TEXT,
	days_open  TEXT[],
	active     BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE sections (
	id            UUID PRIMARY KEY,
	restaurant_id UUID NOT NULL REFERENCES restaurants(id)
);

CREATE TABLE tables (
	id         UUID PRIMARY KEY,
	section_id UUID NOT NULL REFERENCES sections(id),
	capacity   INT NOT NULL
);

CREATE TABLE reservations (
	id               UUID PRIMARY KEY,
	restaurant_id    UUID NOT NULL,
	user_id          UUID NOT NULL,
	table_id         UUID NOT NULL,
	reservation_date DATE NOT NULL,
	start_min        INT NOT NULL,
	duration_min     INT NOT NULL,
	guests           INT NOT NULL,
	status           TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL,
	CONSTRAINT reservations_no_overlap EXCLUDE USING gist (
		table_id WITH =,
		reservation_date WITH =,
		int4range(start_min, start_min + duration_min) WITH &&
	) WHERE (status IN ('PENDING', 'CONFIRMED'))
);

CREATE TABLE schedule_exceptions (
	id            UUID PRIMARY KEY,
	restaurant_id UUID NOT NULL,
	start_date    DATE NOT NULL,
	end_date      DATE NOT NULL,
	reason        TEXT,
	CONSTRAINT schedule_exceptions_no_overlap EXCLUDE USING gist (
		restaurant_id WITH =,
		daterange(start_date, end_date, '[]') WITH &&
	)
);
`

func TestIntegration_ReservationLifecycle(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16",
			Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_DB": "mesaya"},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor:   wait.ForListeningPort("5432/tcp"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer pgContainer.Terminate(ctx)

	mongoContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForExec([]string{"mongosh", "--eval", "db.runCommand('ping').ok"}),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer mongoContainer.Terminate(ctx)

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForExec([]string{"redis-cli", "ping"}),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer redisContainer.Terminate(ctx)

	rabbitContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.13-management",
			ExposedPorts: []string{"5672/tcp", "15672/tcp"},
			WaitingFor:   wait.ForHTTP("/api/health").WithPort("15672"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer rabbitContainer.Terminate(ctx)

	pgHost, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatal(err)
	}
	mongoHost, err := mongoContainer.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	mongoPort, err := mongoContainer.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatal(err)
	}
	redisHost, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatal(err)
	}
	rabbitHost, err := rabbitContainer.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	rabbitPort, err := rabbitContainer.MappedPort(ctx, "5672")
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		PostgresDSN:        "postgresql://postgres:postgres@" + pgHost + ":" + pgPort.Port() + "/mesaya?sslmode=disable",
		MongoURI:           "mongodb://" + mongoHost + ":" + mongoPort.Port(),
		RedisAddr:          redisHost + ":" + redisPort.Port(),
		RabbitURL:          "amqp://guest:guest@" + rabbitHost + ":" + rabbitPort.Port() + "/",
		HoldTTL:            300 * time.Second,
		DefaultDurationMin: 90,
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		t.Fatal(err)
	}
	repo := postgres.NewRepository(pool)

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		t.Fatal(err)
	}
	defer mongoClient.Disconnect(ctx)
	logger := observability.NewLogger()
	audit := mongoadapter.NewAuditTrail(mongoClient.Database("mesaya"), logger)

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	holdStore := redisadapter.NewHoldStore(redisClient)
	rl := ratelimit.NewRateLimiter(redisClient)

	rabbitConn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		t.Fatal(err)
	}
	defer rabbitConn.Close()
	publisher, err := rabbit.NewPublisher(rabbitConn)
	if err != nil {
		t.Fatal(err)
	}

	service := scheduling.NewService(
		repo.Tables(), repo.Calendars(), repo.Reservations(), repo.Exceptions(),
		scheduling.TrustedUserDirectory{}, repo.Ownership(),
		publisher, audit, logger, cfg.DefaultDurationMin,
	)
	holds := scheduling.NewHoldCoordinator(holdStore, cfg.HoldTTL, logger)
	exceptions := scheduling.NewExceptionService(repo.Exceptions(), repo.Ownership(), logger)

	handlers := httphandler.NewHandlers(service, holds, exceptions, logger)
	r := httphandler.SetupRouter(handlers, logger, rl)

	srv := &http.Server{Addr: ":18080", Handler: r}
	go srv.ListenAndServe()
	defer srv.Shutdown(ctx)
	time.Sleep(100 * time.Millisecond)

	base := "http://localhost:18080"
	restaurantID := uuid.New()
	ownerID := uuid.New()
	sectionID := uuid.New()
	tableID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	if _, err := pool.Exec(ctx, `
		INSERT INTO restaurants (id, owner_id, open_time, close_time, days_open, active)
		VALUES ($1, $2, '09:00', '22:00', ARRAY['MONDAY','TUESDAY','WEDNESDAY','THURSDAY','FRIDAY','SATURDAY'], TRUE)`,
		restaurantID, ownerID); err != nil {
		t.Fatal(err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO sections (id, restaurant_id) VALUES ($1, $2)`, sectionID, restaurantID); err != nil {
		t.Fatal(err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO tables (id, section_id, capacity) VALUES ($1, $2, 4)`, tableID, sectionID); err != nil {
		t.Fatal(err)
	}

	post := func(path string, payload map[string]any) *http.Response {
		t.Helper()
		body, _ := json.Marshal(payload)
		req, _ := http.NewRequest("POST", base+path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	// Alice grabs the table hold; Bob is turned away while it lives.
	resp := post("/v1/tables/select", map[string]any{
		"tableId": tableID, "restaurantId": restaurantID, "sectionId": sectionID,
		"userId": alice, "sessionId": "sess-alice",
	})
	var selection struct {
		Success bool `json:"success"`
	}
	json.NewDecoder(resp.Body).Decode(&selection)
	if resp.StatusCode != http.StatusOK || !selection.Success {
		t.Fatalf("alice select: status %d success %v", resp.StatusCode, selection.Success)
	}

	resp = post("/v1/tables/select", map[string]any{
		"tableId": tableID, "restaurantId": restaurantID, "sectionId": sectionID,
		"userId": bob, "sessionId": "sess-bob",
	})
	json.NewDecoder(resp.Body).Decode(&selection)
	if selection.Success {
		t.Fatal("bob acquired a held table")
	}

	// 2025-03-10 is a Monday.
	reserve := func(user uuid.UUID, at string) *http.Response {
		return post("/v1/reservations", map[string]any{
			"restaurantId": restaurantID, "userId": user, "tableId": tableID,
			"reservationDate": "2025-03-10", "reservationTime": at, "numberOfGuests": 2,
		})
	}

	resp = reserve(alice, "19:00")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("19:00 reserve: status %d", resp.StatusCode)
	}
	var first struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	}
	json.NewDecoder(resp.Body).Decode(&first)
	if first.Status != "PENDING" {
		t.Fatalf("expected PENDING, got %s", first.Status)
	}

	if resp = reserve(bob, "19:30"); resp.StatusCode != http.StatusConflict {
		t.Fatalf("19:30 overlap: expected 409, got %d", resp.StatusCode)
	}
	if resp = reserve(bob, "20:30"); resp.StatusCode != http.StatusCreated {
		t.Fatalf("20:30 back-to-back: expected 201, got %d", resp.StatusCode)
	}

	// Owner confirms.
	resp = post("/v1/reservations/"+first.ID.String()+"/confirm", map[string]any{"ownerId": ownerID})
	var confirmed struct {
		Status string `json:"status"`
	}
	json.NewDecoder(resp.Body).Decode(&confirmed)
	if resp.StatusCode != http.StatusOK || confirmed.Status != "CONFIRMED" {
		t.Fatalf("confirm: status %d state %s", resp.StatusCode, confirmed.Status)
	}

	// Blackout the next day and watch a reservation bounce off it.
	resp = post("/v1/restaurants/"+restaurantID.String()+"/schedule-exceptions", map[string]any{
		"ownerId": ownerID, "startDate": "2025-03-11", "endDate": "2025-03-12", "reason": "private event",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("exception create: status %d", resp.StatusCode)
	}
	resp = post("/v1/reservations", map[string]any{
		"restaurantId": restaurantID, "userId": bob, "tableId": tableID,
		"reservationDate": "2025-03-11", "reservationTime": "19:00", "numberOfGuests": 2,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("blackout reserve: expected 409, got %d", resp.StatusCode)
	}

	// Cancelling frees the slot for the 19:30 attempt that lost earlier.
	resp = post("/v1/reservations/"+first.ID.String()+"/cancel", map[string]any{"userId": alice})
	var cancelled struct {
		Status string `json:"status"`
	}
	json.NewDecoder(resp.Body).Decode(&cancelled)
	if resp.StatusCode != http.StatusOK || cancelled.Status != "CANCELLED" {
		t.Fatalf("cancel: status %d state %s", resp.StatusCode, cancelled.Status)
	}
	if resp = reserve(bob, "19:30"); resp.StatusCode != http.StatusCreated {
		t.Fatalf("19:30 after cancel: expected 201, got %d", resp.StatusCode)
	}

	// Alice releases her hold; Bob can now take it.
	resp = post("/v1/tables/release", map[string]any{
		"tableId": tableID, "restaurantId": restaurantID, "sectionId": sectionID, "userId": alice,
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("release: status %d", resp.StatusCode)
	}
	resp = post("/v1/tables/select", map[string]any{
		"tableId": tableID, "restaurantId": restaurantID, "sectionId": sectionID,
		"userId": bob, "sessionId": "sess-bob",
	})
	json.NewDecoder(resp.Body).Decode(&selection)
	if !selection.Success {
		t.Fatal("bob could not acquire after release")
	}
}
