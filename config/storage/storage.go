package storage

import (
	"context"
	"errors"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrNotConfigured = errors.New("object storage is not configured")

// Uploader is the object store documents and payslips are written to.
type Uploader interface {
	Upload(ctx context.Context, key string, file io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(url, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, err
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, key string, file io.Reader) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:     key,
		Folder:       c.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}

func (c *Cloudinary) Delete(ctx context.Context, key string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: c.publicID(key)})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}

func (c *Cloudinary) publicID(key string) string {
	if c.folder == "" {
		return key
	}
	return c.folder + "/" + key
}

// Disabled rejects every call; used when no storage URL is configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, io.Reader) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Delete(context.Context, string) error { return ErrNotConfigured }
