package analysis

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/ipvault/ipvault/internal/model"
)

// Stub defaults.
const (
	DefaultStubDelay    = 2 * time.Second
	stubConfidenceScore = 0.95
	enhancedPrefix      = "[AI Enhanced]"
)

// Stub fabricates analysis results locally after an artificial delay.
// Vectors are derived from the content with SHAKE256, so the same input
// always yields the same embedding.
type Stub struct {
	delay     time.Duration
	dimension int
}

// NewStub creates a stub analyzer. A negative delay is treated as zero.
func NewStub(delay time.Duration) *Stub {
	if delay < 0 {
		delay = 0
	}
	return &Stub{delay: delay, dimension: model.VectorDimension}
}

// Analyze waits for the configured delay, then returns templated metadata
// keyed off the top-level MIME category.
func (s *Stub) Analyze(ctx context.Context, req *Request) (*model.AnalysisResult, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	description, tags := describe(req.FileType, req.Title, req.UserDescription)

	return &model.AnalysisResult{
		IsMatch:             true,
		ConfidenceScore:     stubConfidenceScore,
		Feedback:            model.DefaultFeedback,
		EnhancedDescription: description,
		Tags:                tags,
		ContentVector:       embed(req, s.dimension),
	}, nil
}

func describe(fileType, title, userDescription string) (string, []string) {
	switch {
	case strings.HasPrefix(fileType, "image"):
		return fmt.Sprintf("%s A high-quality visual representation of %s. %s", enhancedPrefix, title, userDescription),
			[]string{"image", "visual", "art", "creative"}
	case strings.HasPrefix(fileType, "audio"):
		return fmt.Sprintf("%s A clear audio recording featuring %s. %s", enhancedPrefix, title, userDescription),
			[]string{"audio", "music", "sound", "recording"}
	case strings.HasPrefix(fileType, "text"), fileType == "application/pdf":
		return fmt.Sprintf("%s A detailed document about %s. %s", enhancedPrefix, title, userDescription),
			[]string{"text", "document", "article", "writing"}
	default:
		return userDescription, []string{"content"}
	}
}

// embed expands a SHAKE256 digest of the request into dim values in [-0.5, 0.5).
func embed(req *Request, dim int) []float64 {
	h := sha3.NewShake256()
	h.Write([]byte(req.Title))
	h.Write([]byte{0})
	h.Write([]byte(req.FileType))
	h.Write([]byte{0})
	if len(req.Data) > 0 {
		h.Write(req.Data)
	} else {
		h.Write([]byte(req.FileURL))
	}

	buf := make([]byte, 8*dim)
	h.Read(buf)

	vector := make([]float64, dim)
	for i := range vector {
		u := binary.BigEndian.Uint64(buf[i*8:])
		vector[i] = float64(u>>11)/(1<<53) - 0.5
	}
	return vector
}
