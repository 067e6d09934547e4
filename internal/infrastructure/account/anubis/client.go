package anubis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/darts-league/internal/domain/user"
	"github.com/riskibarqy/darts-league/internal/platform/cache"
	"github.com/riskibarqy/darts-league/internal/platform/logging"
	"github.com/riskibarqy/darts-league/internal/platform/resilience"
	"github.com/riskibarqy/darts-league/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

var errAnubisTransient = crerr.New("anubis transient failure")

const (
	defaultTimeout  = 5 * time.Second
	principalTTL    = 30 * time.Second
	maxResponseSize = 1 << 20
)

type Config struct {
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client resolves access tokens into principals through the Anubis
// introspection endpoint.
type Client struct {
	http           *fasthttp.Client
	introspectURL  string
	adminKey       string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	principals     *cache.Store
}

func NewClient(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                "darts-league",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseSize,
		},
		introspectURL:  buildURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:       strings.TrimSpace(cfg.AdminKey),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
		principals:     cache.NewStore(principalTTL),
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	value, err := c.principals.GetOrLoad(ctx, hashToken(token), func(ctx context.Context) (any, error) {
		return c.introspectGuarded(ctx, token)
	})
	if err != nil {
		return user.Principal{}, err
	}
	principal, ok := value.(user.Principal)
	if !ok {
		return user.Principal{}, fmt.Errorf("unexpected cached principal type %T", value)
	}
	return principal, nil
}

func (c *Client) introspectGuarded(ctx context.Context, token string) (user.Principal, error) {
	if !c.circuitEnabled {
		return c.introspect(ctx, token)
	}

	var principal user.Principal
	err := c.breaker.Execute(func() error {
		var err error
		principal, err = c.introspect(ctx, token)
		return err
	}, isCircuitFailure)
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "anubis circuit breaker rejected request", "state", c.breaker.State())
		return user.Principal{}, fmt.Errorf("%w: anubis circuit open", usecase.ErrDependencyUnavailable)
	}
	return principal, err
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)

	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "marshal introspect request")
	}
	_, _ = body.Write(encoded)

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.introspectURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}
	req.SetBody(body.B)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return user.Principal{}, transient(fmt.Errorf("%w: request introspection to anubis: %v", usecase.ErrDependencyUnavailable, err))
	}

	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusUnauthorized:
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case status == fasthttp.StatusForbidden:
		c.logger.ErrorContext(ctx, "anubis rejected admin key", "status_code", status)
		return user.Principal{}, fmt.Errorf("%w: anubis rejected admin key", usecase.ErrDependencyUnavailable)
	case status >= 500 || status == fasthttp.StatusTooManyRequests:
		c.logger.WarnContext(ctx, "anubis introspection unavailable", "status_code", status)
		return user.Principal{}, transient(fmt.Errorf("%w: anubis status %d", usecase.ErrDependencyUnavailable, status))
	case status != fasthttp.StatusOK:
		c.logger.WarnContext(ctx, "anubis introspection non-200", "status_code", status)
		return user.Principal{}, crerr.Newf("anubis introspection failed with status %d", status)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
		return user.Principal{}, crerr.Wrap(err, "unmarshal introspect response")
	}
	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID: decoded.UserID,
		Email:  decoded.Email,
		TeamID: strings.TrimSpace(decoded.TeamID),
		Role:   decoded.role(),
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool     `json:"active"`
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	TeamID string   `json:"team_id"`
	Roles  []string `json:"roles"`
}

// role picks the most privileged known role; unknown roles map to a plain user.
func (r introspectResponse) role() string {
	role := ""
	for _, candidate := range r.Roles {
		switch user.NormalizeRole(candidate) {
		case user.RoleAdmin:
			return user.RoleAdmin
		case user.RoleReadOnly:
			role = user.RoleReadOnly
		}
	}
	return role
}
