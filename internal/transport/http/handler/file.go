package handler

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"
	"go-gin-ecommerce/internal/service"
	"go-gin-ecommerce/internal/transport/http/ez"
)

type FileHandler struct {
	files *service.FileStore
	// runs in front of the upload routes, before the body is parsed
	uploadGuard []gin.HandlerFunc
}

func NewFileHandler(fs *service.FileStore, uploadGuard ...gin.HandlerFunc) *FileHandler {
	return &FileHandler{files: fs, uploadGuard: uploadGuard}
}

type downloadIn struct {
	PrivateURL string `form:"privateUrl" binding:"required"`
}

func (h *FileHandler) MountAPI(e ez.EZ) {
	g := e.Group("/file")

	g.Router().GET("/download", func(c *gin.Context) {
		var in downloadIn
		if err := c.ShouldBindQuery(&in); err != nil {
			ez.Fail(c, e.Log(), apperr.Validation("%s", err.Error()))
			return
		}
		p, err := h.files.Resolve(in.PrivateURL)
		if err != nil {
			ez.Fail(c, e.Log(), err)
			return
		}
		c.FileAttachment(p, path.Base(in.PrivateURL))
	})

	up := g.Group("/upload", h.uploadGuard...)
	for _, a := range domain.Attachments {
		ez.RegisterAction(up, ez.Action[struct{}, empty]{
			Method:  http.MethodPost,
			Path:    "/" + a.Dir(),
			Binder:  ez.BindNone,
			Auth:    true,
			Status:  http.StatusNoContent,
			Handler: h.upload(a),
		})
	}
}

// upload reads the multipart parts "file" and "filename".
func (h *FileHandler) upload(a domain.Attachment) func(*gin.Context, *struct{}) (empty, error) {
	return func(c *gin.Context, _ *struct{}) (empty, error) {
		fh, err := c.FormFile("file")
		if err != nil {
			return empty{}, apperr.Validation("multipart part \"file\" is required")
		}
		name := c.PostForm("filename")
		if name == "" {
			return empty{}, apperr.Validation("multipart part \"filename\" is required")
		}
		f, err := fh.Open()
		if err != nil {
			return empty{}, apperr.Wrap(apperr.KindFileOperation, err, "could not read upload")
		}
		defer f.Close()
		_, err = h.files.Upload(c.Request.Context(), a, name, f)
		return empty{}, err
	}
}

func (h *FileHandler) Priority() int { return 50 }
