package ssa

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
	"usydrc/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultLoginUrl        = "https://wasm.usyd.edu.au/login.cgi"
	DefaultCourseSelectUrl = "https://ssa.usyd.edu.au/ssa/examresults/courseselect.jsp"
	DefaultResultsUrl      = "https://ssa.usyd.edu.au/ssa/examresults/courseresults.jsp"
)

var (
	ErrLoginFailed = errors.New("failed to login to SSA, check your uni-key and password")
	ErrUnavailable = errors.New("the SSA results page is unavailable")
)

type ClientOptions struct {
	LoginUrl        string
	CourseSelectUrl string
	ResultsUrl      string
	Timeout         time.Duration
	// wraps the transport to look like a browser to cloudflare
	BypassCloudflare bool
	// optional, receives request/response dumps while debug logging is on
	Dumps restyutil.InstrumentOutput
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.LoginUrl == "" {
		o.LoginUrl = DefaultLoginUrl
	}
	if o.CourseSelectUrl == "" {
		o.CourseSelectUrl = DefaultCourseSelectUrl
	}
	if o.ResultsUrl == "" {
		o.ResultsUrl = DefaultResultsUrl
	}
	if o.Timeout == 0 {
		o.Timeout = time.Second * 30
	}
	return o
}

type Client struct {
	http *resty.Client
	opts ClientOptions
}

func NewClient(opts ClientOptions) (*Client, error) {
	opts = opts.withDefaults()
	for _, u := range []string{opts.LoginUrl, opts.CourseSelectUrl, opts.ResultsUrl} {
		_, err := url.ParseRequestURI(u)
		if err != nil {
			return nil, err
		}
	}

	client := resty.New()
	if opts.BypassCloudflare {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	// the sign-on lives on a different host than SSA
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	client.SetTimeout(opts.Timeout)

	restyutil.InstrumentClient(client, tracer, opts.Dumps)

	return &Client{http: client, opts: opts}, nil
}

// login posts credentials to the sign-on with a fresh cookie jar and returns
// the body of the page it redirects to.
func (c *Client) login(ctx context.Context, req LoginRequest) ([]byte, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c.http.SetCookieJar(jar)

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(req.FormData()).
		Post(c.opts.LoginUrl)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() >= 400 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, res.StatusCode())
	}
	return res.Body(), nil
}

// DegreeId logs in and finds the id of the student's degree on the course
// selection page. Bad credentials show up as ErrLoginFailed.
func (c *Client) DegreeId(ctx context.Context, username, password string) (int, error) {
	ctx, span := tracer.Start(ctx, "client:DegreeId")
	defer span.End()

	body, err := c.login(ctx, NewLoginRequest(username, password, c.opts.CourseSelectUrl))
	if errors.Is(err, ErrUnavailable) {
		span.SetStatus(codes.Error, "login rejected")
		return 0, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch course selection")
		return 0, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return 0, err
	}

	href := doc.Find(`a[href*="courseresults"]`).First().AttrOr("href", "")
	id, err := parseDegreeId(href)
	if err != nil {
		span.SetStatus(codes.Error, "no degree link")
		return 0, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	span.SetAttributes(attribute.Int("degree_id", id))
	return id, nil
}

func parseDegreeId(href string) (int, error) {
	if href == "" {
		return 0, fmt.Errorf("no course results link")
	}
	idx := strings.LastIndex(href, "=")
	if idx < 0 {
		return 0, fmt.Errorf("no degree id in %q", href)
	}
	return strconv.Atoi(href[idx+1:])
}

// ResultsPage logs in and returns the raw html of the results page of the
// given degree.
func (c *Client) ResultsPage(ctx context.Context, username, password string, degreeId int) (string, error) {
	ctx, span := tracer.Start(ctx, "client:ResultsPage")
	defer span.End()

	dest := fmt.Sprintf("%s?degreeid=%d", c.opts.ResultsUrl, degreeId)
	body, err := c.login(ctx, NewLoginRequest(username, password, dest))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch results page")
		return "", err
	}
	return string(body), nil
}

// Session binds credentials to a client so callers only need to ask for
// the page.
type Session struct {
	Client   *Client
	Username string
	Password string
	DegreeId int
}

func (s Session) ResultsPage(ctx context.Context) (string, error) {
	return s.Client.ResultsPage(ctx, s.Username, s.Password, s.DegreeId)
}
