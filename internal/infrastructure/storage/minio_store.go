// Package storage sube los paquetes de exportación masiva a un bucket S3 compatible (MinIO).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jhoicas/Compras-api/internal/application/export"
)

// DefaultBucket bucket por defecto de las exportaciones.
const DefaultBucket = "po-exports"

// ObjectAPI subconjunto de *minio.Client que usa el almacén.
type ObjectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

var _ export.ArchiveStore = (*ArchiveStore)(nil)

// ArchiveStore guarda cada ZIP bajo <año>/<mes>/<uuid>-<nombre>.
type ArchiveStore struct {
	api    ObjectAPI
	bucket string
	now    func() time.Time
}

// NewMinioArchiveStore conecta con MinIO y asegura que el bucket exista.
func NewMinioArchiveStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ArchiveStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: cliente: %w", err)
	}
	s := NewArchiveStore(client, bucket)
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewArchiveStore construye el almacén sobre un cliente ya creado.
func NewArchiveStore(api ObjectAPI, bucket string) *ArchiveStore {
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &ArchiveStore{api: api, bucket: bucket, now: time.Now}
}

// EnsureBucket crea el bucket si no existe.
func (s *ArchiveStore) EnsureBucket(ctx context.Context) error {
	found, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio: verificar bucket %s: %w", s.bucket, err)
	}
	if found {
		return nil
	}
	if err := s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio: crear bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Put sube el archivo y devuelve la clave del objeto.
func (s *ArchiveStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := s.objectKey(name)
	_, err := s.api.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio: subir %s: %w", key, err)
	}
	return key, nil
}

// PresignedURL enlace temporal de descarga para una clave devuelta por Put.
func (s *ArchiveStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.api.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("minio: url firmada %s: %w", key, err)
	}
	return u.String(), nil
}

func (s *ArchiveStore) objectKey(name string) string {
	now := s.now()
	return path.Join(now.Format("2006"), now.Format("01"), uuid.New().String()+"-"+path.Base(name))
}
