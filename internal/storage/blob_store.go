package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/google/uuid"

	"github.com/videotube/account-service/internal/domain"
)

// BlobStore implements domain.AssetStore on Azure Blob Storage. Uploaded
// blobs get uuid names; the container-relative blob name doubles as the
// asset's public id and is recoverable from its URL.
type BlobStore struct {
	client    *azblob.Client
	container string
}

// NewBlobStore creates a BlobStore for the given client and container.
func NewBlobStore(client *azblob.Client, container string) *BlobStore {
	return &BlobStore{client: client, container: container}
}

// EnsureContainer creates the backing container with public blob access if it
// does not exist yet.
func (s *BlobStore) EnsureContainer(ctx context.Context) error {
	access := azblob.PublicAccessTypeBlob
	_, err := s.client.CreateContainer(ctx, s.container, &azblob.CreateContainerOptions{
		Access: &access,
	})
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("failed to create container: %w", err)
	}
	return nil
}

// Upload transmits a staged local file to the store and returns its
// reference. The local file is removed whether or not the transfer succeeds.
// An empty path yields (nil, nil) so optional uploads can be skipped.
func (s *BlobStore) Upload(ctx context.Context, localPath string) (*domain.AssetRef, error) {
	if localPath == "" {
		return nil, nil
	}
	defer os.Remove(localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local file: %w", err)
	}
	defer f.Close()

	ext := filepath.Ext(localPath)
	blobName := uuid.New().String() + ext
	contentType := contentTypeForExt(ext)

	_, err = s.client.UploadStream(ctx, s.container, blobName, f, &azblob.UploadStreamOptions{
		BlockSize:   int64(1024) * 256, // 256KB
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload blob: %w", err)
	}

	return &domain.AssetRef{
		URL:      s.blobURL(blobName),
		PublicID: blobName,
	}, nil
}

// Delete removes the blob identified by a stored asset URL.
func (s *BlobStore) Delete(ctx context.Context, assetURL string) error {
	if assetURL == "" {
		return nil
	}
	blobName, err := PublicIDFromURL(assetURL, s.container)
	if err != nil {
		return err
	}
	if _, err := s.client.DeleteBlob(ctx, s.container, blobName, nil); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

func (s *BlobStore) blobURL(blobName string) string {
	return strings.TrimSuffix(s.client.URL(), "/") + "/" + s.container + "/" + blobName
}

// PublicIDFromURL derives the container-relative blob name from an asset URL.
func PublicIDFromURL(assetURL, container string) (string, error) {
	u, err := url.Parse(assetURL)
	if err != nil {
		return "", fmt.Errorf("invalid asset url: %w", err)
	}
	prefix := "/" + container + "/"
	idx := strings.Index(u.Path, prefix)
	if idx == -1 {
		return "", fmt.Errorf("asset url does not reference container %q", container)
	}
	name := u.Path[idx+len(prefix):]
	if name == "" {
		return "", fmt.Errorf("asset url has no blob name")
	}
	return name, nil
}

// contentTypeForExt maps a file extension to the blob content type.
func contentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpeg", ".jpg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
