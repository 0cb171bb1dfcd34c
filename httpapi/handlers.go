package httpapi

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"

	"github.com/guapman/storage-service/files"
	"github.com/guapman/storage-service/metadata"
	"github.com/guapman/storage-service/pagination"
	"github.com/guapman/storage-service/sorter"
)

// headerUserID carries the opaque requester identity. Authentication is
// performed upstream; the value is trusted as-is.
const headerUserID = "X-User-Id"

// Error codes produced at the transport boundary.
const (
	CodeMissingIdentity = "MISSING_USER_ID"
	CodeMissingFilePart = "MISSING_FILE_PART"
	CodeTooManyTags     = "TOO_MANY_TAGS"
)

// FileService is the part of the file service the HTTP layer depends on.
type FileService interface {
	Ingest(
		ctx context.Context,
		ownerID string,
		filename string,
		declaredType string,
		visibility metadata.Visibility,
		rawTags []string,
		r io.Reader,
	) (*metadata.FileRecord, error)
	Get(ctx context.Context, requesterID, externalID string) (*files.StoredFile, error)
	Delete(ctx context.Context, requesterID, externalID string) error
	Rename(ctx context.Context, requesterID, externalID, newFilename string) (*metadata.FileRecord, error)
	ListPublic(
		ctx context.Context, rawTags []string, page pagination.Params, sort sorter.Opt,
	) (pagination.Page[metadata.FileRecord], error)
	ListOwned(
		ctx context.Context, ownerID string, rawTags []string, page pagination.Params, sort sorter.Opt,
	) (pagination.Page[metadata.FileRecord], error)
}

type handlers struct {
	svc FileService
	cfg Config
}

func (h *handlers) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *handlers) upload(c *fiber.Ctx) error {
	ownerID, err := requireUser(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return errx.New(
			"multipart part 'file' is required",
			errx.WithCode(CodeMissingFilePart),
			errx.WithType(errx.T_Validation),
		)
	}

	filename := c.FormValue("filename")
	if filename == "" {
		filename = fh.Filename
	}

	visibility := metadata.Visibility(strings.ToUpper(c.FormValue("visibility", string(metadata.VisibilityPrivate))))

	rawTags, err := h.formTags(c)
	if err != nil {
		return err
	}

	src, err := fh.Open()
	if err != nil {
		return errx.Wrap(err)
	}
	defer src.Close()

	rec, err := h.svc.Ingest(
		c.UserContext(), ownerID, filename, partContentType(fh), visibility, rawTags, src,
	)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *handlers) download(c *fiber.Ctx) error {
	sf, err := h.svc.Get(c.UserContext(), c.Get(headerUserID), c.Params("fileId"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, sf.Record.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", sf.Record.Filename))

	// SendStream closes the reader once the body has been written.
	return c.SendStream(sf.Content, int(sf.Record.Size))
}

func (h *handlers) rename(c *fiber.Ctx) error {
	requesterID, err := requireUser(c)
	if err != nil {
		return err
	}

	rec, err := h.svc.Rename(c.UserContext(), requesterID, c.Params("fileId"), c.Query("filename"))
	if err != nil {
		return err
	}

	return c.JSON(rec)
}

func (h *handlers) remove(c *fiber.Ctx) error {
	requesterID, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.UserContext(), requesterID, c.Params("fileId")); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) listPublic(c *fiber.Ctx) error {
	rawTags, page, sort, err := h.listParams(c)
	if err != nil {
		return err
	}

	result, err := h.svc.ListPublic(c.UserContext(), rawTags, page, sort)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *handlers) listOwned(c *fiber.Ctx) error {
	ownerID, err := requireUser(c)
	if err != nil {
		return err
	}

	rawTags, page, sort, err := h.listParams(c)
	if err != nil {
		return err
	}

	result, err := h.svc.ListOwned(c.UserContext(), ownerID, rawTags, page, sort)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func requireUser(c *fiber.Ctx) (string, error) {
	userID := c.Get(headerUserID)
	if userID == "" {
		return "", errx.New(
			"X-User-Id header is required",
			errx.WithCode(CodeMissingIdentity),
			errx.WithType(errx.T_Authentication),
		)
	}
	return userID, nil
}

// listParams extracts the tag filter, pagination and sorting from the query.
func (h *handlers) listParams(c *fiber.Ctx) ([]string, pagination.Params, sorter.Opt, error) {
	page := pagination.Params{
		Page: cast.ToInt(c.Query("page")),
		Size: cast.ToInt(c.Query("size")),
	}
	page.Normalize(h.cfg.MaxPageSize)

	sort, err := sorter.Parse(c.Query("sortBy"), cast.ToBool(c.Query("ascending", "true")))
	if err != nil {
		return nil, page, sort, err
	}

	rawTags := queryMulti(c, "tags")
	if err := h.checkTagCount(rawTags); err != nil {
		return nil, page, sort, err
	}

	return rawTags, page, sort, nil
}

func (h *handlers) formTags(c *fiber.Ctx) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	rawTags := form.Value["tags"]
	if err := h.checkTagCount(rawTags); err != nil {
		return nil, err
	}
	return rawTags, nil
}

func (h *handlers) checkTagCount(rawTags []string) error {
	if len(rawTags) > h.cfg.MaxTags {
		return errx.New(
			fmt.Sprintf("at most %d tags are allowed", h.cfg.MaxTags),
			errx.WithCode(CodeTooManyTags),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"got": len(rawTags)}),
		)
	}
	return nil
}

func queryMulti(c *fiber.Ctx, key string) []string {
	var out []string
	for _, v := range c.Context().QueryArgs().PeekMulti(key) {
		out = append(out, string(v))
	}
	return out
}

func partContentType(fh *multipart.FileHeader) string {
	return fh.Header.Get(fiber.HeaderContentType)
}
