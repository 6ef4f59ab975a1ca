package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/sandeepkv93/codereview-portal/internal/database"
	"github.com/sandeepkv93/codereview-portal/internal/domain"
)

// NewMongoStores returns repositories backed by the shared mongo handle.
// Collections are resolved per call so the first request performs the dial.
func NewMongoStores(h *database.MongoHandle) Stores {
	return Stores{
		Users:      &MongoUserRepository{h: h},
		Activities: &MongoActivityRepository{h: h},
		Contacts:   &MongoContactRepository{h: h},
	}
}

func collection(ctx context.Context, h *database.MongoHandle, name string) (*mongo.Collection, error) {
	db, err := h.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func parseObjectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

type userDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Email     string        `bson:"email"`
	Name      string        `bson:"name"`
	Image     string        `bson:"image,omitempty"`
	Role      string        `bson:"role"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Name:      d.Name,
		Image:     d.Image,
		Role:      d.Role,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type MongoUserRepository struct{ h *database.MongoHandle }

func (r *MongoUserRepository) findOne(ctx context.Context, op string, filter bson.M) (*domain.User, error) {
	coll, err := collection(ctx, r.h, database.UsersCollection)
	if err == nil {
		var doc userDoc
		err = coll.FindOne(ctx, filter).Decode(&doc)
		if err == nil {
			observe(ctx, "user", op, nil)
			return doc.toDomain(), nil
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			err = ErrUserNotFound
		}
	}
	observe(ctx, "user", op, err)
	return nil, err
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "find_by_email", bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return r.findOne(ctx, "find_by_id", bson.M{"_id": oid})
}

func (r *MongoUserRepository) UpsertByEmail(ctx context.Context, profile domain.UserProfile) (*domain.User, bool, error) {
	p := profile.Normalized()
	created, err := r.upsert(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		// Two concurrent upserts can both miss and both insert; the unique
		// email index rejects the loser, whose retry then matches the winner.
		created, err = r.upsert(ctx, p)
	}
	observe(ctx, "user", "upsert", err)
	if err != nil {
		return nil, false, err
	}
	u, err := r.FindByEmail(ctx, p.Email)
	if err != nil {
		return nil, false, err
	}
	return u, created, nil
}

func (r *MongoUserRepository) upsert(ctx context.Context, p domain.UserProfile) (bool, error) {
	coll, err := collection(ctx, r.h, database.UsersCollection)
	if err != nil {
		return false, err
	}
	ts := now()
	res, err := coll.UpdateOne(ctx,
		bson.M{"email": p.Email},
		bson.M{
			"$set":         bson.M{"name": p.Name, "image": p.Image, "updatedAt": ts},
			"$setOnInsert": bson.M{"role": domain.RoleUser, "createdAt": ts},
		},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *MongoUserRepository) SetRole(ctx context.Context, email, role string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	coll, err := collection(ctx, r.h, database.UsersCollection)
	if err == nil {
		var res *mongo.UpdateResult
		res, err = coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role, "updatedAt": now()}})
		if err == nil && res.MatchedCount == 0 {
			err = ErrUserNotFound
		}
	}
	observe(ctx, "user", "set_role", err)
	if err != nil {
		return nil, err
	}
	return r.FindByEmail(ctx, email)
}

func (r *MongoUserRepository) List(ctx context.Context, req PageRequest) (PageResult[domain.User], error) {
	req = req.Clamp()
	var (
		total int64
		docs  []userDoc
	)
	coll, err := collection(ctx, r.h, database.UsersCollection)
	if err == nil {
		total, err = coll.CountDocuments(ctx, bson.M{})
	}
	if err == nil {
		err = findAll(ctx, coll, bson.M{}, &docs, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip(int64(req.offset())).
			SetLimit(int64(req.PageSize)))
	}
	observe(ctx, "user", "list", err)
	if err != nil {
		return PageResult[domain.User]{}, err
	}
	items := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		items = append(items, *d.toDomain())
	}
	return newPageResult(req, items, total), nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, out *[]T, opts *options.FindOptionsBuilder) error {
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

type activityDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Type        string        `bson:"type"`
	Description string        `bson:"description"`
	TargetName  string        `bson:"targetName"`
	UserID      bson.ObjectID `bson:"userId"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

type MongoActivityRepository struct{ h *database.MongoHandle }

func (r *MongoActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	err := r.create(ctx, a)
	observe(ctx, "activity", "create", err)
	return err
}

func (r *MongoActivityRepository) create(ctx context.Context, a *domain.Activity) error {
	userID, err := parseObjectID(a.UserID)
	if err != nil {
		return err
	}
	coll, err := collection(ctx, r.h, database.ActivitiesCollection)
	if err != nil {
		return err
	}
	ts := now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = ts
	}
	a.UpdatedAt = ts
	doc := activityDoc{
		ID:          bson.NewObjectID(),
		Type:        string(a.Type),
		Description: a.Description,
		TargetName:  a.TargetName,
		UserID:      userID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	a.ID = doc.ID.Hex()
	return nil
}

func (r *MongoActivityRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.Activity, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return []domain.Activity{}, nil
	}
	var docs []activityDoc
	coll, err := collection(ctx, r.h, database.ActivitiesCollection)
	if err == nil {
		err = findAll(ctx, coll, bson.M{"userId": oid}, &docs, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
			SetLimit(int64(limit)))
	}
	observe(ctx, "activity", "list_recent", err)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Activity, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Activity{
			ID:          d.ID.Hex(),
			Type:        domain.ActivityType(d.Type),
			Description: d.Description,
			TargetName:  d.TargetName,
			UserID:      d.UserID.Hex(),
			CreatedAt:   d.CreatedAt.UTC(),
			UpdatedAt:   d.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *MongoActivityRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return 0, nil
	}
	var n int64
	coll, err := collection(ctx, r.h, database.ActivitiesCollection)
	if err == nil {
		n, err = coll.CountDocuments(ctx, bson.M{"userId": oid})
	}
	observe(ctx, "activity", "count", err)
	return n, err
}

type contactDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Subject   string        `bson:"subject"`
	Message   string        `bson:"message"`
	Status    string        `bson:"status"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d contactDoc) toDomain() domain.Contact {
	return domain.Contact{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Subject:   d.Subject,
		Message:   d.Message,
		Status:    domain.ContactStatus(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type MongoContactRepository struct{ h *database.MongoHandle }

func (r *MongoContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	coll, err := collection(ctx, r.h, database.ContactsCollection)
	if err == nil {
		if c.Status == "" {
			c.Status = domain.ContactUnread
		}
		ts := now()
		c.CreatedAt, c.UpdatedAt = ts, ts
		doc := contactDoc{
			ID:        bson.NewObjectID(),
			Name:      c.Name,
			Email:     c.Email,
			Subject:   c.Subject,
			Message:   c.Message,
			Status:    string(c.Status),
			CreatedAt: ts,
			UpdatedAt: ts,
		}
		if _, err = coll.InsertOne(ctx, doc); err == nil {
			c.ID = doc.ID.Hex()
		}
	}
	observe(ctx, "contact", "create", err)
	return err
}

func (r *MongoContactRepository) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, ErrContactNotFound
	}
	coll, err := collection(ctx, r.h, database.ContactsCollection)
	if err == nil {
		var doc contactDoc
		if err = coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err == nil {
			observe(ctx, "contact", "find_by_id", nil)
			c := doc.toDomain()
			return &c, nil
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			err = ErrContactNotFound
		}
	}
	observe(ctx, "contact", "find_by_id", err)
	return nil, err
}

func (r *MongoContactRepository) List(ctx context.Context, filter ContactFilter) (PageResult[domain.Contact], error) {
	req := filter.Page.Clamp()
	q := bson.M{}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}
	var (
		total int64
		docs  []contactDoc
	)
	coll, err := collection(ctx, r.h, database.ContactsCollection)
	if err == nil {
		total, err = coll.CountDocuments(ctx, q)
	}
	if err == nil {
		err = findAll(ctx, coll, q, &docs, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
			SetSkip(int64(req.offset())).
			SetLimit(int64(req.PageSize)))
	}
	observe(ctx, "contact", "list", err)
	if err != nil {
		return PageResult[domain.Contact]{}, err
	}
	items := make([]domain.Contact, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return newPageResult(req, items, total), nil
}

func (r *MongoContactRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ContactStatus) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return ErrContactNotFound
	}
	coll, err := collection(ctx, r.h, database.ContactsCollection)
	if err == nil {
		var res *mongo.UpdateResult
		res, err = coll.UpdateOne(ctx,
			bson.M{"_id": oid, "status": string(from)},
			bson.M{"$set": bson.M{"status": string(to), "updatedAt": now()}})
		if err == nil && res.MatchedCount == 0 {
			var n int64
			if n, err = coll.CountDocuments(ctx, bson.M{"_id": oid}); err == nil {
				err = ErrContactStateChanged
				if n == 0 {
					err = ErrContactNotFound
				}
			}
		}
	}
	observe(ctx, "contact", "update_status", err)
	return err
}

func (r *MongoContactRepository) ListSince(ctx context.Context, since time.Time) ([]domain.Contact, error) {
	var docs []contactDoc
	coll, err := collection(ctx, r.h, database.ContactsCollection)
	if err == nil {
		err = findAll(ctx, coll, bson.M{"createdAt": bson.M{"$gte": since.UTC()}}, &docs,
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	}
	observe(ctx, "contact", "list_since", err)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Contact, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
