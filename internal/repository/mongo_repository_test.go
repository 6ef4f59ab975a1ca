package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestMongoDocumentsUseCamelCaseFields(t *testing.T) {
	ts := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	docs := map[string]any{
		"users":      userDoc{ID: bson.NewObjectID(), Email: "dev@example.com", Name: "Dev", Role: "user", CreatedAt: ts, UpdatedAt: ts},
		"activities": activityDoc{ID: bson.NewObjectID(), Type: "comment_added", Description: "d", TargetName: "repo", UserID: bson.NewObjectID(), CreatedAt: ts, UpdatedAt: ts},
		"contacts":   contactDoc{ID: bson.NewObjectID(), Name: "Taro", Email: "t@example.com", Subject: "s", Message: "m", Status: "unread", CreatedAt: ts},
	}
	want := map[string][]string{
		"users":      {"createdAt", "updatedAt"},
		"activities": {"targetName", "userId", "createdAt", "updatedAt"},
		"contacts":   {"createdAt"},
	}
	for coll, doc := range docs {
		raw, err := bson.Marshal(doc)
		if err != nil {
			t.Fatalf("%s: marshal: %v", coll, err)
		}
		for _, key := range want[coll] {
			if _, err := bson.Raw(raw).LookupErr(key); err != nil {
				t.Fatalf("%s: expected field %q: %v", coll, key, err)
			}
		}
		for _, legacy := range []string{"created_at", "updated_at", "user_id", "target_name"} {
			if _, err := bson.Raw(raw).LookupErr(legacy); err == nil {
				t.Fatalf("%s: unexpected snake_case field %q", coll, legacy)
			}
		}
	}
}
