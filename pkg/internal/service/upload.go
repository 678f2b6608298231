package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	ctxPkg "github.com/yeisme/listingvault/pkg/context"
	"github.com/yeisme/listingvault/pkg/internal/model"
	"github.com/yeisme/listingvault/pkg/internal/policy"
	"github.com/yeisme/listingvault/pkg/internal/signature"
	"github.com/yeisme/listingvault/pkg/internal/storage/blob"
	"github.com/yeisme/listingvault/pkg/metrics"
	"github.com/yeisme/listingvault/pkg/queue"
	"github.com/yeisme/listingvault/pkg/tracing"
)

// 拒绝原因代码，用于指标和事件.
const (
	RejectExtension = "extension"
	RejectMime      = "mime"
	RejectTooLarge  = "too_large"
	RejectEmpty     = "empty"
	RejectSignature = "signature"
	RejectRead      = "read_error"
)

// UploadedFile 一个待处理的上传文件.
type UploadedFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Accepted 文件已存储.
type Accepted struct {
	StorageID string
	PublicURL string
	Image     *model.Image
}

// Rejected 文件被拒绝.
type Rejected struct {
	Code   string
	Reason string
}

// Outcome 单个文件的结果，Accepted 与 Rejected 恰有一个非空.
type Outcome struct {
	Index    int // 输入中的位置，从 0 开始
	Name     string
	Accepted *Accepted
	Rejected *Rejected
}

// OK 文件是否被接受.
func (o Outcome) OK() bool { return o.Accepted != nil }

// Verdict 批次结论.
type Verdict string

const (
	AllAccepted Verdict = "all_accepted"
	Partial     Verdict = "partial"
	AllRejected Verdict = "all_rejected"
)

// BatchResult 按输入顺序排列的结果.
type BatchResult struct {
	Outcomes []Outcome
	Verdict  Verdict
}

// URLs 被接受文件的访问路径.
func (r *BatchResult) URLs() []string {
	out := make([]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Accepted != nil {
			out = append(out, o.Accepted.PublicURL)
		}
	}

	return out
}

// Reasons 被拒绝文件的原因.
func (r *BatchResult) Reasons() []string {
	out := make([]string, 0)
	for _, o := range r.Outcomes {
		if o.Rejected != nil {
			out = append(out, o.Rejected.Reason)
		}
	}

	return out
}

// BatchError 整批被拒绝（空批次或超出数量上限）.
type BatchError struct {
	Code    string
	Message string
}

func (e *BatchError) Error() string { return e.Message }

// 批次错误代码.
const (
	BatchEmpty   = "empty"
	BatchTooMany = "too_many"
)

// UploadService 校验并存储上传的图片.
type UploadService struct {
	policy    *policy.UploadPolicy
	validator *signature.Validator
	images    blob.Store
	db        *gorm.DB
	events    *queue.Emitter
	now       func() time.Time
}

// NewUploadService 创建上传服务，events 可以为 nil.
func NewUploadService(p *policy.UploadPolicy, images blob.Store, db *gorm.DB, events *queue.Emitter) *UploadService {
	return &UploadService{
		policy:    p,
		validator: signature.New(p),
		images:    images,
		db:        db,
		events:    events,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ProcessBatch 逐个校验并存储文件，单个文件失败不影响其他文件.
// 只有存储或数据库故障才返回 error；空批次或超过上限返回 *BatchError.
func (s *UploadService) ProcessBatch(ctx context.Context, files []UploadedFile) (*BatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "upload.ProcessBatch")
	defer span.End()

	span.SetAttributes(attribute.Int("upload.files", len(files)))

	if len(files) == 0 {
		metrics.UploadBatches.WithLabelValues("refused").Inc()
		return nil, &BatchError{Code: BatchEmpty, Message: "No se recibieron archivos (campo 'files')."}
	}

	if limit := s.policy.MaxBatchCount(); len(files) > limit {
		metrics.UploadBatches.WithLabelValues("refused").Inc()

		return nil, &BatchError{
			Code:    BatchTooMany,
			Message: fmt.Sprintf("Máximo %d imágenes por lote. Recibido: %d", limit, len(files)),
		}
	}

	outcomes := make([]Outcome, len(files))

	if workers := s.policy.Concurrency(); workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)

		for i := range files {
			g.Go(func() error {
				o, err := s.processOne(gctx, i, files[i], batchPrefix(i, files[i]))
				outcomes[i] = o

				return err
			})
		}

		if err := g.Wait(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logAborted(ctx, outcomes, err)

			return nil, err
		}
	} else {
		for i := range files {
			o, err := s.processOne(ctx, i, files[i], batchPrefix(i, files[i]))
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				logAborted(ctx, outcomes, err)

				return nil, err
			}

			outcomes[i] = o
		}
	}

	res := &BatchResult{Outcomes: outcomes, Verdict: verdictOf(outcomes)}
	metrics.UploadBatches.WithLabelValues(string(res.Verdict)).Inc()

	span.SetAttributes(attribute.String("upload.verdict", string(res.Verdict)))

	l := ctxPkg.Logger(ctx)
	l.Info().
		Int("files", len(files)).
		Int("accepted", len(res.URLs())).
		Str("verdict", string(res.Verdict)).
		Msg("upload batch processed")

	return res, nil
}

// logAborted 记录批次中途失败时已经写入存储的图片，这些对象不会出现在响应里.
func logAborted(ctx context.Context, outcomes []Outcome, err error) {
	stored := make([]string, 0, len(outcomes))

	for _, o := range outcomes {
		if o.OK() {
			stored = append(stored, o.Accepted.StorageID)
		}
	}

	metrics.UploadBatches.WithLabelValues("failed").Inc()

	l := ctxPkg.Logger(ctx)
	l.Error().Err(err).
		Int("files", len(outcomes)).
		Strs("stored", stored).
		Msg("upload batch aborted")
}

// StoreSingle 单文件上传，校验顺序与批量相同，原因不带序号前缀.
func (s *UploadService) StoreSingle(ctx context.Context, file UploadedFile, source string) (Outcome, error) {
	ctx, span := tracing.StartSpan(ctx, "upload.StoreSingle")
	defer span.End()

	return s.process(ctx, 0, file, "", source)
}

func (s *UploadService) processOne(ctx context.Context, i int, f UploadedFile, prefix string) (Outcome, error) {
	return s.process(ctx, i, f, prefix, model.ImageSourceUpload)
}

func batchPrefix(i int, f UploadedFile) string {
	return "Archivo " + strconv.Itoa(i+1) + " (" + displayName(f.Name) + "): "
}

func displayName(name string) string {
	if name == "" {
		return DefaultImageName
	}

	return name
}

// process 执行检查序列，第一个失败的检查决定拒绝原因.
func (s *UploadService) process(ctx context.Context, i int, f UploadedFile, prefix, source string) (Outcome, error) {
	name := displayName(f.Name)

	contentType := f.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	out := Outcome{Index: i, Name: name}
	reject := func(code, reason string) (Outcome, error) {
		out.Rejected = &Rejected{Code: code, Reason: prefix + reason}
		metrics.UploadFiles.WithLabelValues("rejected", code).Inc()
		s.events.ImageRejected(ctx, queue.ImageRejectedPayload{
			Name: name, ContentType: contentType, Size: f.Size, Reason: out.Rejected.Reason, Code: code,
		})

		return out, nil
	}

	if !s.policy.ExtensionAllowed(name) {
		return reject(RejectExtension, "extensión no permitida. Permitidas: "+s.policy.ExtensionsLabel())
	}

	if !s.policy.MimeAllowed(contentType) {
		return reject(RejectMime, "tipo MIME no permitido. Recibido: "+contentType)
	}

	if f.Size > s.policy.MaxImageBytes() {
		return reject(RejectTooLarge, fmt.Sprintf("excede el tamaño máximo de %dMB", s.policy.MaxImageMB()))
	}

	if f.Size <= 0 {
		return reject(RejectEmpty, "archivo vacío")
	}

	if f.Open == nil {
		return reject(RejectRead, "error al procesar - no content")
	}

	rc, err := f.Open()
	if err != nil {
		return reject(RejectRead, "error al procesar - "+err.Error())
	}
	defer rc.Close()

	ok, replay, err := s.validator.Peek(rc, contentType)
	if err != nil {
		return reject(RejectRead, "error al procesar - "+err.Error())
	}

	if !ok {
		return reject(RejectSignature, "el contenido no coincide con el tipo declarado (posible archivo malicioso)")
	}

	img, err := s.store(ctx, name, contentType, f.Size, replay, source)
	if err != nil {
		return out, err
	}

	out.Accepted = &Accepted{StorageID: img.ID, PublicURL: img.PublicURL(), Image: img}
	metrics.UploadFiles.WithLabelValues("accepted", "").Inc()

	batchIndex := 0
	if prefix != "" {
		batchIndex = i + 1
	}

	s.events.ImageStored(ctx, queue.ImageStoredPayload{
		Image:      imageRef(img),
		Source:     source,
		BatchIndex: batchIndex,
	})

	return out, nil
}

// store 写入对象存储并记录元数据，数据库失败时回滚对象.
func (s *UploadService) store(ctx context.Context, name, contentType string, size int64, r io.Reader, source string) (*model.Image, error) {
	id := model.NewIDAt(s.now())
	digest := xxhash.New()

	info, err := s.images.Put(ctx, id, io.TeeReader(r, digest), size, contentType)
	if err != nil {
		return nil, fmt.Errorf("store image %s: %w", name, err)
	}

	img := &model.Image{
		ID:          id,
		Name:        name,
		ContentType: contentType,
		Size:        info.Size,
		Checksum:    fmt.Sprintf("%016x", digest.Sum64()),
		StorageKey:  id,
		Source:      source,
		CreatedAt:   s.now(),
	}

	if err := s.db.WithContext(ctx).Create(img).Error; err != nil {
		if derr := s.images.Delete(context.WithoutCancel(ctx), id); derr != nil {
			err = errors.Join(err, derr)
		}

		return nil, fmt.Errorf("save image metadata %s: %w", name, err)
	}

	metrics.UploadBytes.Add(float64(info.Size))

	return img, nil
}

func verdictOf(outcomes []Outcome) Verdict {
	accepted := 0
	for _, o := range outcomes {
		if o.OK() {
			accepted++
		}
	}

	switch accepted {
	case len(outcomes):
		return AllAccepted
	case 0:
		return AllRejected
	default:
		return Partial
	}
}

func imageRef(img *model.Image) queue.ImageRef {
	return queue.ImageRef{
		ID:          img.ID,
		StorageKey:  img.StorageKey,
		URL:         img.PublicURL(),
		Name:        img.Name,
		ContentType: img.ContentType,
		Size:        img.Size,
		Checksum:    img.Checksum,
	}
}
