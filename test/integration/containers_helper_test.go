package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sandeepkv93/codereview-portal/internal/config"
	"github.com/sandeepkv93/codereview-portal/internal/database"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
	"github.com/sandeepkv93/codereview-portal/internal/service"
)

// containerSpec describes one throwaway backend. The image can be pinned
// from the environment so CI mirrors work without code changes.
type containerSpec struct {
	name         string
	imageEnv     string
	defaultImage string
	port         string
	env          map[string]string
	cmd          []string
	waitFor      wait.Strategy
}

// startContainer runs cs and returns the host:port of its mapped port.
func startContainer(t *testing.T, cs containerSpec) string {
	t.Helper()
	ctx := context.Background()
	image := strings.TrimSpace(os.Getenv(cs.imageEnv))
	if image == "" {
		image = cs.defaultImage
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			Env:          cs.env,
			Cmd:          cs.cmd,
			ExposedPorts: []string{cs.port},
			WaitingFor:   cs.waitFor,
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start %s container (%s): %v", cs.name, image, err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("%s host: %v", cs.name, err)
	}
	port, err := c.MappedPort(ctx, nat.Port(cs.port))
	if err != nil {
		t.Fatalf("%s port: %v", cs.name, err)
	}
	return net.JoinHostPort(host, port.Port())
}

type mongoIntegrationEnv struct {
	backend *database.Backend
	stores  repository.Stores
}

// newMongoIntegrationEnv opens a prepared mongo store in a fresh database.
func newMongoIntegrationEnv(t *testing.T) *mongoIntegrationEnv {
	t.Helper()
	addr := startContainer(t, containerSpec{
		name:         "mongo",
		imageEnv:     "MONGO_TEST_IMAGE",
		defaultImage: "docker.io/library/mongo:7.0",
		port:         "27017/tcp",
		waitFor:      wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
	})

	backend, err := database.OpenBackend(&config.Config{
		StoreDriver:   config.StoreDriverMongo,
		MongoURI:      "mongodb://" + addr,
		MongoDatabase: fmt.Sprintf("codereview_it_%d", time.Now().UnixNano()),
	}, nil)
	if err != nil {
		t.Fatalf("open mongo backend: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := backend.Prepare(ctx); err != nil {
		t.Fatalf("ensure mongo indexes: %v", err)
	}
	return &mongoIntegrationEnv{backend: backend, stores: repository.NewStores(backend)}
}

const (
	minioUser     = "minioadmin"
	minioPassword = "minioadmin"
)

type minioIntegrationEnv struct {
	bucket   string
	uploader *service.MinioUploader
	client   *minio.Client
}

// newMinIOIntegrationEnv returns the archive uploader pointed at a bucket
// that does not exist yet, plus a plain client for reading objects back.
func newMinIOIntegrationEnv(t *testing.T) *minioIntegrationEnv {
	t.Helper()
	endpoint := startContainer(t, containerSpec{
		name:         "minio",
		imageEnv:     "MINIO_TEST_IMAGE",
		defaultImage: "docker.io/minio/minio:RELEASE.2025-09-07T16-13-09Z",
		port:         "9000/tcp",
		env:          map[string]string{"MINIO_ROOT_USER": minioUser, "MINIO_ROOT_PASSWORD": minioPassword},
		cmd:          []string{"server", "/data", "--address", ":9000"},
		waitFor:      wait.ForHTTP("/minio/health/ready").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	})

	bucket := fmt.Sprintf("contact-archive-it-%d", time.Now().UnixNano())
	uploader, err := service.NewMinioUploader(&config.Config{
		ArchiveEndpoint:  endpoint,
		ArchiveAccessKey: minioUser,
		ArchiveSecretKey: minioPassword,
		ArchiveBucket:    bucket,
	})
	if err != nil {
		t.Fatalf("create archive uploader: %v", err)
	}
	client, err := minio.New(endpoint, &minio.Options{Creds: credentials.NewStaticV4(minioUser, minioPassword, "")})
	if err != nil {
		t.Fatalf("create minio client: %v", err)
	}
	return &minioIntegrationEnv{bucket: bucket, uploader: uploader, client: client}
}

func (e *minioIntegrationEnv) mustReadObject(t *testing.T, key string) (minio.ObjectInfo, []byte) {
	t.Helper()
	obj, err := e.client.GetObject(context.Background(), e.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		t.Fatalf("get %q: %v", key, err)
	}
	defer obj.Close()
	info, err := obj.Stat()
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && (resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket") {
			t.Fatalf("archive object %q was not written", key)
		}
		t.Fatalf("stat %q: %v", key, err)
	}
	raw, err := io.ReadAll(obj)
	if err != nil {
		t.Fatalf("read %q: %v", key, err)
	}
	return info, raw
}
