package services

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	mealImageBucket = "foodhub-meal-images"
	imageURLExpiry  = 7 * 24 * time.Hour
)

// MealImageStore holds meal photos in object storage. Objects are keyed by
// provider and meal, so re-uploading replaces the previous image.
type MealImageStore interface {
	Put(ctx context.Context, providerID, mealID uuid.UUID, reader io.Reader, size int64) (string, error)
	Remove(ctx context.Context, providerID, mealID uuid.UUID) error
}

type minioImageStore struct {
	client *minio.Client
}

func NewMealImageStore(endpoint, accessKey, secretKey string, useSSL bool) (MealImageStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioImageStore{client: client}, nil
}

func mealImageObject(providerID, mealID uuid.UUID) string {
	return providerID.String() + "/" + mealID.String()
}

// sniffContentType detects the uploaded image's content type from its leading
// bytes without consuming them.
func sniffContentType(br *bufio.Reader) (string, error) {
	head, err := br.Peek(512)
	if err != nil && err != io.EOF {
		return "", err
	}
	return http.DetectContentType(head), nil
}

// Put uploads the image and returns a presigned URL for reading it back.
func (s *minioImageStore) Put(ctx context.Context, providerID, mealID uuid.UUID, reader io.Reader, size int64) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	br := bufio.NewReader(reader)
	contentType, err := sniffContentType(br)
	if err != nil {
		return "", err
	}

	object := mealImageObject(providerID, mealID)
	if _, err := s.client.PutObject(ctx, mealImageBucket, object, br, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", err
	}

	url, err := s.client.PresignedGetObject(ctx, mealImageBucket, object, imageURLExpiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (s *minioImageStore) Remove(ctx context.Context, providerID, mealID uuid.UUID) error {
	return s.client.RemoveObject(ctx, mealImageBucket, mealImageObject(providerID, mealID), minio.RemoveObjectOptions{})
}

func (s *minioImageStore) ensureBucket(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, mealImageBucket)
	if err != nil {
		return err
	}
	if !found {
		return s.client.MakeBucket(ctx, mealImageBucket, minio.MakeBucketOptions{})
	}
	return nil
}
