package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error

	putInfo minioLib.UploadInfo
	putErr  error

	getRC  io.ReadCloser
	getErr error

	removeErr error

	statInfo minioLib.ObjectInfo
	statErr  error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	return f.makeBucketErr
}
func (f *fakeMinio) PutObject(_ context.Context, _ string, _ string, _ io.Reader, _ int64, _ minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	return f.putInfo, f.putErr
}
func (f *fakeMinio) GetObject(_ context.Context, _ string, _ string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	return f.getRC, f.getErr
}
func (f *fakeMinio) RemoveObject(_ context.Context, _ string, _ string, _ minioLib.RemoveObjectOptions) error {
	return f.removeErr
}
func (f *fakeMinio) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return f.statInfo, f.statErr
}

func TestNewClientWithAPI_BucketExists(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "reports")
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, "reports", c.bucket)
}

func TestNewClientWithAPI_CreateBucket(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false}
	c, err := NewClientWithAPI(ctx, api, "reports")
	require.NoError(t, err)
	assert.Equal(t, "reports", c.bucket)
}

func TestNewClientWithAPI_BucketExistsError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExistsErr: errors.New("boom")}
	c, err := NewClientWithAPI(ctx, api, "reports")
	assert.Nil(t, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure bucket exists")
}

func TestNewClientWithAPI_MakeBucketError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false, makeBucketErr: errors.New("fail")}
	c, err := NewClientWithAPI(ctx, api, "reports")
	assert.Nil(t, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure bucket exists")
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeMinio{}
		c := &Client{api: api, bucket: "reports"}
		err := c.Upload(ctx, "reports/latest.txt", bytes.NewReader([]byte("data")))
		assert.NoError(t, err)
	})

	t.Run("error", func(t *testing.T) {
		api := &fakeMinio{putErr: errors.New("put-fail")}
		c := &Client{api: api, bucket: "reports"}
		err := c.Upload(ctx, "reports/latest.txt", bytes.NewReader([]byte("data")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload object")
	})
}

func TestClient_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeMinio{getRC: io.NopCloser(strings.NewReader("report body"))}
		c := &Client{api: api, bucket: "reports"}

		rc, err := c.Download(ctx, "reports/latest.txt")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "report body", string(data))
	})

	t.Run("error", func(t *testing.T) {
		api := &fakeMinio{getErr: errors.New("get-fail")}
		c := &Client{api: api, bucket: "reports"}

		_, err := c.Download(ctx, "reports/latest.txt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get object")
	})
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		c := &Client{api: &fakeMinio{}, bucket: "reports"}
		assert.NoError(t, c.Delete(ctx, "reports/old.txt"))
	})

	t.Run("error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{removeErr: errors.New("remove-fail")}, bucket: "reports"}
		err := c.Delete(ctx, "reports/old.txt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete object")
	})
}

func TestClient_Exists(t *testing.T) {
	ctx := context.Background()

	t.Run("object exists", func(t *testing.T) {
		c := &Client{api: &fakeMinio{}, bucket: "reports"}
		exists, err := c.Exists(ctx, "reports/latest.txt")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("no such key", func(t *testing.T) {
		c := &Client{api: &fakeMinio{statErr: minioLib.ErrorResponse{Code: "NoSuchKey"}}, bucket: "reports"}
		exists, err := c.Exists(ctx, "reports/latest.txt")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("stat error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{statErr: errors.New("stat-fail")}, bucket: "reports"}
		_, err := c.Exists(ctx, "reports/latest.txt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to stat object")
	})
}
