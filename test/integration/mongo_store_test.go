package integration

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/health"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
	"github.com/sandeepkv93/codereview-portal/internal/service"
)

func TestMongoUserUpsertKeepsRoleAndFirstCreate(t *testing.T) {
	ctx := context.Background()
	env := newMongoIntegrationEnv(t)
	users := env.stores.Users

	u, created, err := users.UpsertByEmail(ctx, domain.UserProfile{Email: "Dev@Example.com", Name: "Dev"})
	if err != nil || !created || u.Role != domain.RoleUser || u.Email != "dev@example.com" {
		t.Fatalf("first upsert: %+v created=%t err=%v", u, created, err)
	}
	if _, err := users.SetRole(ctx, "dev@example.com", domain.RoleAdmin); err != nil {
		t.Fatalf("set role: %v", err)
	}
	again, created, err := users.UpsertByEmail(ctx, domain.UserProfile{Email: "dev@example.com", Name: "Dev Renamed", Image: "https://img.example/dev.png"})
	if err != nil || created {
		t.Fatalf("second upsert: created=%t err=%v", created, err)
	}
	if again.ID != u.ID || again.Role != domain.RoleAdmin || again.Name != "Dev Renamed" || !again.CreatedAt.Equal(u.CreatedAt) {
		t.Fatalf("upsert must refresh profile only: before=%+v after=%+v", u, again)
	}
	if _, err := users.SetRole(ctx, "ghost@example.com", domain.RoleAdmin); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	page, err := users.List(ctx, repository.PageRequest{Page: 1, PageSize: 10})
	if err != nil || page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("list: %+v %v", page, err)
	}
}

func TestMongoConcurrentUpsertCreatesOneUser(t *testing.T) {
	ctx := context.Background()
	env := newMongoIntegrationEnv(t)

	var created atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, c, err := env.stores.Users.UpsertByEmail(ctx, domain.UserProfile{Email: "race@example.com", Name: "Race"})
			if err != nil {
				t.Errorf("upsert: %v", err)
				return
			}
			if c {
				created.Add(1)
			}
		}()
	}
	wg.Wait()
	if created.Load() != 1 {
		t.Fatalf("expected exactly one create, got %d", created.Load())
	}
	page, err := env.stores.Users.List(ctx, repository.PageRequest{Page: 1, PageSize: 10})
	if err != nil || page.Total != 1 {
		t.Fatalf("expected one user document, got %d %v", page.Total, err)
	}
}

func TestMongoActivitiesNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	env := newMongoIntegrationEnv(t)
	base := time.Now().UTC().Truncate(time.Millisecond)
	userID, otherID := bson.NewObjectID().Hex(), bson.NewObjectID().Hex()

	for i := 0; i < 5; i++ {
		a := &domain.Activity{
			Type:        domain.ActivityCommentAdded,
			Description: "comment",
			TargetName:  "repo#1",
			UserID:      userID,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}
		if err := env.stores.Activities.Create(ctx, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	other := &domain.Activity{Type: domain.ActivityReviewStarted, Description: "x", TargetName: "y", UserID: otherID}
	if err := env.stores.Activities.Create(ctx, other); err != nil {
		t.Fatalf("create other: %v", err)
	}

	items, err := env.stores.Activities.ListRecentByUser(ctx, userID, 3)
	if err != nil || len(items) != 3 {
		t.Fatalf("list: %d %v", len(items), err)
	}
	if !items[0].CreatedAt.Equal(base.Add(4*time.Second)) || !items[2].CreatedAt.Equal(base.Add(2*time.Second)) {
		t.Fatalf("expected newest first: %v %v", items[0].CreatedAt, items[2].CreatedAt)
	}
	n, err := env.stores.Activities.CountByUser(ctx, userID)
	if err != nil || n != 5 {
		t.Fatalf("count: %d %v", n, err)
	}
}

func TestMongoContactStatusCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	env := newMongoIntegrationEnv(t)
	c := &domain.Contact{Name: "Race", Email: "race@example.com", Subject: "Race", Message: "Concurrent transitions test."}
	if err := env.stores.Contacts.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == "" || c.Status != domain.ContactUnread {
		t.Fatalf("unexpected created contact: %+v", c)
	}

	if err := env.stores.Contacts.UpdateStatus(ctx, c.ID, domain.ContactRead, domain.ContactReplied); !errors.Is(err, repository.ErrContactStateChanged) {
		t.Fatalf("stale from-status must conflict, got %v", err)
	}
	if _, err := env.stores.Contacts.FindByID(ctx, "not-an-object-id"); !errors.Is(err, repository.ErrInvalidID) && !errors.Is(err, repository.ErrContactNotFound) {
		t.Fatalf("expected invalid id or not found, got %v", err)
	}

	svc := service.NewAdminContactService(env.stores.Contacts)
	var wins, conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.UpdateStatus(ctx, c.ID, string(domain.ContactRead))
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, repository.ErrContactStateChanged):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	// Callers that read "read" take the no-op path, so all eight either
	// succeed or report the lost race.
	if wins.Load() == 0 || wins.Load()+conflicts.Load() != 8 {
		t.Fatalf("wins=%d conflicts=%d", wins.Load(), conflicts.Load())
	}
	got, err := env.stores.Contacts.FindByID(ctx, c.ID)
	if err != nil || got.Status != domain.ContactRead {
		t.Fatalf("final status: %+v %v", got, err)
	}

	since, err := env.stores.Contacts.ListSince(ctx, c.CreatedAt)
	if err != nil || len(since) != 1 {
		t.Fatalf("list since: %d %v", len(since), err)
	}
	filtered, err := env.stores.Contacts.List(ctx, repository.ContactFilter{Status: domain.ContactUnread, Page: repository.PageRequest{Page: 1, PageSize: 5}})
	if err != nil || filtered.Total != 0 {
		t.Fatalf("unread filter: %d %v", filtered.Total, err)
	}
}

func TestMongoReadinessAndPortalFlow(t *testing.T) {
	ctx := context.Background()
	env := newMongoIntegrationEnv(t)

	res := health.NewMongoChecker(env.backend.Mongo).Check(ctx)
	if !res.Healthy || res.Name != "mongo" {
		t.Fatalf("mongo readiness: %+v", res)
	}

	s := newPortalServerWithOptions(t, portalServerOptions{stores: &env.stores})
	client := newBrowserClient(t)
	s.signIn(t, client, "mongo@example.com", "/dashboard")

	resp := doRaw(t, client, http.MethodPost, s.baseURL+"/api/activities", map[string]string{
		"type": "review_started", "description": "kickoff", "targetName": "mongo-repo#1",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create activity: %d", resp.StatusCode)
	}
	var list activityList
	doJSON(t, client, http.MethodGet, s.baseURL+"/api/activities", nil, nil, &list)
	if list.Total != 1 || list.Activities[0].TargetName != "mongo-repo#1" {
		t.Fatalf("unexpected list: %+v", list)
	}
}
