package transferService

import (
	"ProjectVietQR/internal/api/transfer"
	"ProjectVietQR/internal/entity"
	"ProjectVietQR/pkg/banks"
	"ProjectVietQR/pkg/log"
	"ProjectVietQR/pkg/neopay"
	"ProjectVietQR/pkg/vietqr"
	"context"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

type ITransferService interface {
	Scan(ctx context.Context, req transfer.ScanRequest) (*transfer.ScanResponse, error)
	ScanError(ctx context.Context, req transfer.ScanErrorRequest) (*transfer.SessionResponse, error)
	SetAmount(ctx context.Context, req transfer.AmountRequest) (*transfer.AmountResponse, error)
	SetToken(ctx context.Context, req transfer.TokenRequest) (*transfer.SessionResponse, error)
	Session(ctx context.Context) (*transfer.SessionResponse, error)
	Submit(ctx context.Context) (*transfer.SubmitResponse, error)
}

// transferService owns the whole mutable state of one payment attempt: the
// current record, resolved bank, amount, token and scan error, guarded by
// one mutex. No other component mutates any of it.
type transferService struct {
	log           *logrus.Logger
	neopayService neopay.INeoPayService

	mu            sync.Mutex
	state         entity.SubmissionState
	record        *vietqr.Record
	bank          *banks.Bank
	amount        int64
	token         string
	lastScanError string
	lastResult    entity.SubmissionState
	inFlight      bool
}

// NewTransferService starts a session in Idle. An ACCESS_TOKEN provided by
// the environment at process start is applied as the initial token, still
// subject to the same lexical validation at submit time.
func NewTransferService(logger *logrus.Logger, np neopay.INeoPayService) ITransferService {
	s := &transferService{
		log:           logger,
		neopayService: np,
		state:         entity.SubmissionIdle,
		amount:        transfer.DefaultAmount,
	}

	if token := os.Getenv("ACCESS_TOKEN"); token != "" {
		s.token = token
		if !transfer.ValidToken(token) {
			logger.WithFields(log.Fields{
				"token_length": len(token),
			}).Warn("Initial access token does not match the expected format")
		}
	}

	return s
}
