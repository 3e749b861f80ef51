package gateway

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/whisper-gateway/errors"
	"github.com/kbukum/whisper-gateway/logger"
	"github.com/kbukum/whisper-gateway/observability"
	"github.com/kbukum/whisper-gateway/scratch"
	"github.com/kbukum/whisper-gateway/server"
	"github.com/kbukum/whisper-gateway/transcription"
	"github.com/kbukum/whisper-gateway/util"
)

const (
	fieldAudio    = "audio"
	fieldLanguage = "language"

	// Parts beyond this are spooled to disk by mime/multipart.
	multipartMemory = 32 << 20

	msgNoAudio       = "no audio file provided"
	msgEmptyFilename = "empty filename"
)

var errNoResult = errors.New("backend returned no result")

// TranscribeResult is the body of a successful POST /transcribe.
type TranscribeResult struct {
	Transcript     string  `json:"transcript"`
	Language       string  `json:"language"`
	Duration       float64 `json:"duration"`
	ProcessingTime float64 `json:"processing_time"`
	Model          string  `json:"model"`
	Segments       int     `json:"segments"`
}

type upload struct {
	header   *multipart.FileHeader
	filename string
	language string
}

// Transcribe accepts a multipart upload with an "audio" file and an
// optional "language" hint and returns the transcript.
func (h *Handler) Transcribe(c *gin.Context) {
	ctx := c.Request.Context()
	log := h.log.WithContext(ctx)

	up, err := h.parseUpload(c.Request)
	if c.Request.MultipartForm != nil {
		defer c.Request.MultipartForm.RemoveAll() //nolint:errcheck // spooled parts only
	}
	if err != nil {
		log.Info("Rejected transcription request", logger.Fields(logger.FieldError, err.Error()))
		server.RespondWithError(c, err)
		return
	}

	languageHint := up.language
	if languageHint == "" {
		languageHint = "auto"
	}
	log.Info("Received transcription request", logger.Fields(
		logger.FieldFilename, up.filename,
		logger.FieldLanguage, languageHint,
	))

	file, err := h.save(up)
	if err != nil {
		h.fail(c, log, err)
		return
	}
	defer h.release(log, file)

	log.Info("Saved upload", logger.Fields(
		logger.FieldPath, file.Path(),
		"size_mb", util.Megabytes(file.Size()),
	))

	cfg := h.model.Config()
	language := cfg.ResolveLanguage(up.language)
	start := time.Now()
	resp, err := h.run(ctx, file.Path(), language)
	elapsed := time.Since(start)
	if err != nil {
		h.fail(c, log, err)
		return
	}

	result := TranscribeResult{
		Transcript:     strings.TrimSpace(resp.Text),
		Language:       resp.Language,
		Duration:       resp.AudioDuration(),
		ProcessingTime: elapsed.Seconds(),
		Model:          h.model.ModelName(),
		Segments:       len(resp.Segments),
	}
	if result.Language == "" {
		result.Language = language
	}

	done := logger.DurationFields("transcribe", elapsed)
	done["transcript_chars"] = len(result.Transcript)
	done["audio_duration"] = result.Duration
	done[logger.FieldLanguage] = result.Language
	log.Info("Transcription completed", done)

	server.RespondOK(c, result)
}

// parseUpload validates the form before anything touches disk.
func (h *Handler) parseUpload(r *http.Request) (*upload, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, apperrors.PayloadTooLarge(h.maxBodySize)
		case errors.Is(err, http.ErrNotMultipart):
			return nil, apperrors.MissingField(fieldAudio, msgNoAudio)
		default:
			return nil, apperrors.InvalidInput("", "malformed multipart body").WithCause(err)
		}
	}

	form := r.MultipartForm
	files := form.File[fieldAudio]
	if len(files) == 0 {
		// mime/multipart treats a part with filename="" as a plain value.
		if _, ok := form.Value[fieldAudio]; ok {
			return nil, apperrors.InvalidInput(fieldAudio, msgEmptyFilename)
		}
		return nil, apperrors.MissingField(fieldAudio, msgNoAudio)
	}

	header := files[0]
	if strings.TrimSpace(header.Filename) == "" {
		return nil, apperrors.InvalidInput(fieldAudio, msgEmptyFilename)
	}

	var language string
	if v := form.Value[fieldLanguage]; len(v) > 0 {
		language = strings.TrimSpace(v[0])
	}
	return &upload{header: header, filename: header.Filename, language: language}, nil
}

func (h *Handler) save(up *upload) (*scratch.File, error) {
	src, err := up.header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close() //nolint:errcheck // read-only
	return h.scratch.Write(up.filename, src)
}

// run calls the model inside a transcription span. Client disconnects do
// not cancel the call.
func (h *Handler) run(ctx context.Context, path, language string) (*transcription.TranscriptionResponse, error) {
	op := observability.NewOperation(h.model.Backend(), h.model.ModelName(), logger.RequestIDFromContext(ctx), h.metrics)
	ctx, span := op.Start(context.WithoutCancel(ctx), language)

	resp, err := h.model.Transcribe(ctx, transcription.TranscriptionRequest{
		AudioPath: path,
		Language:  language,
		Model:     h.model.ModelName(),
	})
	if err == nil && resp == nil {
		err = errNoResult
	}

	var audio float64
	if err == nil {
		audio = resp.AudioDuration()
	}
	op.End(ctx, span, audio, err)
	return resp, err
}

func (h *Handler) fail(c *gin.Context, log *logger.Logger, err error) {
	appErr := apperrors.TranscriptionFailed(err)
	fields := logger.MergeWithError(logger.Fields(logger.FieldErrorKind, appErr.Type()), err)
	log.Error("Transcription failed", fields)
	server.RespondWithError(c, appErr)
}

func (h *Handler) release(log *logger.Logger, f *scratch.File) {
	if err := f.Release(); err != nil {
		log.Warn("Failed to delete temp file", logger.MergeWithError(logger.Fields(logger.FieldPath, f.Path()), err))
	}
}
