package usecase

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt"
	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/log"
	"github.com/x-xyz/editionmarket/domain"
)

const (
	defaultTokenTTL    = 24 * time.Hour
	defaultMsgTemplate = "Sign in to the edition market as %s"
)

type AuthUseCaseCfg struct {
	JwtSecret string
	// default 24h
	TokenTTL time.Duration
	// %s is replaced by the lower case address
	SigningMsgTemplate string
	// default time.Now
	Now func() time.Time
}

type impl struct {
	jwtSecret []byte
	ttl       time.Duration
	template  string
	now       func() time.Time
}

func New(cfg *AuthUseCaseCfg) domain.AuthUsecase {
	im := &impl{
		jwtSecret: []byte(cfg.JwtSecret),
		ttl:       cfg.TokenTTL,
		template:  cfg.SigningMsgTemplate,
		now:       cfg.Now,
	}
	if im.template == "" {
		im.template = defaultMsgTemplate
	}
	if im.ttl <= 0 {
		im.ttl = defaultTokenTTL
	}
	if im.now == nil {
		im.now = time.Now
	}
	return im
}

func (im *impl) SignToken(ctx ctx.Ctx, address domain.Address) (string, error) {
	addr, err := domain.NormalizeAddress(string(address))
	if err != nil {
		ctx.WithFields(log.Fields{"address": address, "err": err}).Info("invalid address")
		return "", err
	}

	claims := domain.JwtCustomClaims{
		Address: string(addr),
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  im.now().Unix(),
			ExpiresAt: im.now().Add(im.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		ctx.WithField("err", err).Error("token.SignedString failed")
		return "", err
	} else {
		return ss, nil
	}
}

func (im *impl) ParseToken(ctx ctx.Ctx, str string) (domain.Address, error) {
	parser := &jwt.Parser{SkipClaimsValidation: true}
	claims := &domain.JwtCustomClaims{}
	_, err := parser.ParseWithClaims(str, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	// expiry is checked against the injected clock
	if !claims.VerifyExpiresAt(im.now().Unix(), true) {
		return "", xerrors.Errorf("token expired: %w", domain.ErrUnauthorized)
	}

	return domain.Address(claims.Address), nil
}

func (im *impl) SigningMessage(address domain.Address) string {
	return fmt.Sprintf(im.template, address.ToLowerStr())
}

func (im *impl) Login(ctx ctx.Ctx, address domain.Address, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		ctx.WithFields(log.Fields{"address": address, "err": err}).Info("malformed signature")
		return "", xerrors.Errorf("malformed signature: %w", domain.ErrBadParamInput)
	}
	// wallets return v as 27/28
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(TextHash([]byte(im.SigningMessage(address))), sig)
	if err != nil {
		ctx.WithFields(log.Fields{"address": address, "err": err}).Info("crypto.SigToPub failed")
		return "", xerrors.Errorf("recover signer: %w", domain.ErrUnauthorized)
	}
	if signer := crypto.PubkeyToAddress(*pub).Hex(); !address.Equals(domain.Address(signer)) {
		ctx.WithFields(log.Fields{"address": address, "signer": signer}).Info("signer mismatch")
		return "", xerrors.Errorf("signed by %s: %w", signer, domain.ErrUnauthorized)
	}

	return im.SignToken(ctx, address)
}

// TextHash is the personal_sign digest of msg
func TextHash(msg []byte) []byte {
	return crypto.Keccak256([]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)))
}
