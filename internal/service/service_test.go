package service_test

import (
	"testing"
	"time"

	"github.com/vishwam-chepuri/matching-app/internal/repository"
	"github.com/vishwam-chepuri/matching-app/internal/service"
	"github.com/vishwam-chepuri/matching-app/internal/testutil"
	"github.com/vishwam-chepuri/matching-app/pkg/jwt"
	"github.com/vishwam-chepuri/matching-app/pkg/storage/storagetest"
	"github.com/vishwam-chepuri/matching-app/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const baseURL = "http://localhost:3001"

var (
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	today     = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
)

type env struct {
	db       *gorm.DB
	store    *storagetest.Memory
	auth     *service.AuthService
	users    *service.UserService
	profiles *service.ProfileService
	photos   *service.PhotoService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutil.NewDB(t)
	store := storagetest.NewMemory()
	log := zap.NewNop()
	validator := utils.NewValidator()

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	photoRepo := repository.NewPhotoRepository(db)

	return &env{
		db:       db,
		store:    store,
		auth:     service.NewAuthService(userRepo, jwt.NewManager("test-secret"), validator, log),
		users:    service.NewUserService(userRepo, store, validator, log),
		profiles: service.NewProfileService(profileRepo, store, baseURL, log).WithClock(func() time.Time { return today }),
		photos:   service.NewPhotoService(profileRepo, photoRepo, store, validator, baseURL, log),
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
