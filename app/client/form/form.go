package form

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"go.uber.org/zap"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sync"
	"user-registration/app/client/config"
)

const (
	RegisterPath   = "/api/auth/register"
	SuccessMessage = "Registration successful"
)

type Notifier interface {
	Success(message string)
	Error(message string)
}

type Navigator interface {
	Navigate(route string)
}

// Outcome 一次提交的结果
type Outcome int

const (
	Succeeded Outcome = iota // 服务器返回 2xx
	Rejected                 // 服务器返回错误，已提示用户
	Failed                   // 网络或解析错误，只记录日志
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Control 提交按钮位置显示的内容
type Control int

const (
	ControlSubmitButton Control = iota
	ControlProgress
)

type Option func(*Form)

func WithHTTPClient(client *http.Client) Option {
	return func(f *Form) {
		f.client = client
	}
}

// WithLoadingHook 在加载状态变化时调用
func WithLoadingHook(hook func(loading bool)) Option {
	return func(f *Form) {
		f.onLoading = hook
	}
}

type Form struct {
	cfg       *config.Config
	client    *http.Client
	notifier  Notifier
	navigator Navigator
	l         *zap.Logger
	onLoading func(bool)

	mu      sync.Mutex
	draft   Draft
	loading bool
}

func New(cfg *config.Config, notifier Notifier, navigator Navigator, l *zap.Logger, opts ...Option) *Form {
	f := &Form{
		cfg:       cfg,
		client:    http.DefaultClient,
		notifier:  notifier,
		navigator: navigator,
		l:         l,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// HandleInput 更新一个文本字段，其他字段保持不变
func (f *Form) HandleInput(name string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := f.draft.with(Field(name), value)
	if err != nil {
		return err
	}
	f.draft = next
	return nil
}

// HandleFile 选择头像，filename 与 data 都为空时表示取消选择
func (f *Form) HandleFile(name string, filename string, data []byte) error {
	if Field(name) != FieldImage {
		return fmt.Errorf("%w: %q is not a file field", ErrUnknownField, name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if filename == "" && data == nil {
		f.draft.Image = nil
		return nil
	}
	f.draft.Image = &Attachment{
		Filename: filename,
		Data:     append([]byte(nil), data...),
	}
	return nil
}

func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.clone()
}

func (f *Form) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

func (f *Form) SubmitControl() Control {
	if f.Loading() {
		return ControlProgress
	}
	return ControlSubmitButton
}

func (f *Form) setLoading(loading bool) {
	f.mu.Lock()
	f.loading = loading
	f.mu.Unlock()

	if f.onLoading != nil {
		f.onLoading(loading)
	}
}

func (f *Form) reset() {
	f.mu.Lock()
	f.draft = Draft{}
	f.mu.Unlock()
}

type responseBody struct {
	Message      string `json:"message"`
	ExtraDetails string `json:"extraDetails"`
}

// Submit 以 multipart/form-data 提交当前草稿，不做去重，每次调用都会发出一个请求
func (f *Form) Submit(ctx context.Context) Outcome {
	f.setLoading(true)
	defer f.setLoading(false) // 无论结果如何都只在最后恢复一次

	draft := f.Draft()

	// 准备请求体
	body, contentType, err := encodeDraft(draft)
	if err != nil {
		f.l.Error("failed to build register form data", zap.Error(err))
		return Failed
	}

	reqURL, err := url.JoinPath(f.cfg.ServerEndpoint, RegisterPath)
	if err != nil {
		f.l.Error("failed to join register request url", zap.String("server", f.cfg.ServerEndpoint), zap.Error(err))
		return Failed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		f.l.Error("failed to prepare register request", zap.String("url", reqURL), zap.Error(err))
		return Failed
	}
	req.Header.Set("Content-Type", contentType)

	// 发送请求
	res, err := f.client.Do(req)
	if err != nil {
		f.l.Error("failed to send register request", zap.String("url", reqURL), zap.Error(err))
		return Failed
	}
	defer res.Body.Close()

	// 解析响应体，成功与失败都应该是 JSON
	var resBody responseBody
	if err = json.NewDecoder(res.Body).Decode(&resBody); err != nil {
		f.l.Error("failed to decode register response", zap.Int("status", res.StatusCode), zap.Error(err))
		return Failed
	}

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		f.notifier.Success(SuccessMessage)
		f.reset()
		f.navigator.Navigate(f.cfg.LandingRoute)
		return Succeeded
	}

	message := resBody.ExtraDetails
	if message == "" {
		message = resBody.Message
	}
	f.notifier.Error(message)
	return Rejected
}

func encodeDraft(d Draft) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, field := range []struct {
		name  Field
		value string
	}{
		{FieldUsername, d.Username},
		{FieldEmail, d.Email},
		{FieldPhone, d.Phone},
		{FieldPassword, d.Password},
	} {
		if err := w.WriteField(string(field.name), field.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.name, err)
		}
	}

	if d.Image != nil {
		filename := d.Image.Filename
		if filename == "" {
			filename = string(FieldImage)
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FieldImage, filename))
		h.Set("Content-Type", http.DetectContentType(d.Image.Data))
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err = part.Write(d.Image.Data); err != nil {
			return nil, "", fmt.Errorf("write image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return body, w.FormDataContentType(), nil
}
