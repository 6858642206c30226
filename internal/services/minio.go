package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"vegas_crm_backend/internal/database"
)

// UploadProductImage stores an uploaded image under products/<productID>/
// and returns the public URL saved on the product row.
func UploadProductImage(productID string, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO is not initialized")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := os.Getenv("MINIO_BUCKET")
	objectName := path.Join("products", productID, file.Filename)

	_, err = database.MinIO.PutObject(context.Background(), bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://%s/%s/%s", os.Getenv("MINIO_ENDPOINT"), bucket, objectName)
	return url, nil
}

// RemoveProductImage deletes an image object given the URL stored on
// the product row.
func RemoveProductImage(imageURL string) error {
	if database.MinIO == nil {
		return fmt.Errorf("MinIO is not initialized")
	}
	bucket := os.Getenv("MINIO_BUCKET")
	prefix := fmt.Sprintf("http://%s/%s/", os.Getenv("MINIO_ENDPOINT"), bucket)
	objectName := strings.TrimPrefix(imageURL, prefix)
	return database.MinIO.RemoveObject(context.Background(), bucket, objectName, minio.RemoveObjectOptions{})
}
