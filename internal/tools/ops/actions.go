package ops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/health"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
	"github.com/sandeepkv93/codereview-portal/internal/service"
	"github.com/sandeepkv93/codereview-portal/internal/tools/common"
)

const listTimeLayout = "2006-01-02 15:04"

func storeStatus(ctx context.Context, rt *common.StoreRuntime) ([]string, error) {
	var checker health.Checker
	switch {
	case rt.Backend.Mongo != nil:
		checker = health.NewMongoChecker(rt.Backend.Mongo)
	case rt.Backend.SQL != nil:
		checker = health.NewDBChecker(rt.Backend.SQL)
	default:
		return nil, fmt.Errorf("no store opened for driver %q", rt.Backend.Driver)
	}
	res := checker.Check(ctx)
	details := []string{"driver: " + rt.Backend.Driver, fmt.Sprintf("%s healthy: %t", res.Name, res.Healthy)}
	if !res.Healthy {
		return details, errors.New(res.Error)
	}
	return details, nil
}

// SetUserRole updates the stored role. The cached identity in the shared
// role cache, if any, is dropped so running servers pick it up on the next
// request.
func SetUserRole(ctx context.Context, rt *common.StoreRuntime, cache service.RoleCacheStore, email, role string) ([]string, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errors.New("email is required")
	}
	if !domain.IsValidRole(role) {
		return nil, service.ErrInvalidRole
	}
	user, err := rt.Stores.Users.SetRole(ctx, domain.NormalizeEmail(email), role)
	if err != nil {
		return nil, err
	}
	details := []string{fmt.Sprintf("%s is now %s", user.Email, user.Role)}
	if cache != nil {
		service.NewRoleResolver(rt.Stores.Users, cache, time.Minute, slog.Default()).Invalidate(ctx, user.Email)
		details = append(details, "role cache invalidated ("+cache.Backend()+")")
	}
	return details, nil
}

func ListUsers(ctx context.Context, rt *common.StoreRuntime, page repository.PageRequest) ([]string, error) {
	res, err := rt.Stores.Users.List(ctx, page)
	if err != nil {
		return nil, err
	}
	details := []string{fmt.Sprintf("page %d/%d total=%d", res.Page, res.TotalPages, res.Total)}
	for _, u := range res.Items {
		details = append(details, fmt.Sprintf("%s %-5s %s", u.ID, u.Role, u.Email))
	}
	return details, nil
}

func ListContacts(ctx context.Context, rt *common.StoreRuntime, status string, page repository.PageRequest) ([]string, error) {
	res, err := service.NewAdminContactService(rt.Stores.Contacts).List(ctx, status, page)
	if err != nil {
		return nil, err
	}
	details := []string{fmt.Sprintf("page %d/%d total=%d", res.Page, res.TotalPages, res.Total)}
	for _, c := range res.Items {
		details = append(details, fmt.Sprintf("%s [%s] %s <%s> %s",
			c.ID, c.Status, c.CreatedAt.UTC().Format(listTimeLayout), c.Email, c.Subject))
	}
	return details, nil
}

func MarkContact(ctx context.Context, rt *common.StoreRuntime, id, status string) ([]string, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}
	c, err := service.NewAdminContactService(rt.Stores.Contacts).UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("%s is now %s", c.ID, c.Status)}, nil
}

func ExportContacts(ctx context.Context, rt *common.StoreRuntime, uploader service.ObjectUploader, since time.Time) ([]string, error) {
	res, err := service.NewContactArchiver(rt.Stores.Contacts, uploader).Export(ctx, since)
	if err != nil {
		return nil, err
	}
	return []string{
		"object: " + res.Key,
		fmt.Sprintf("contacts=%d bytes=%d", res.Count, res.Bytes),
	}, nil
}
