package client

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"connectrpc.com/connect"
	"golang.org/x/text/currency"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

const (
	currencyKey = "preferred_currency"

	// DefaultCurrency is used when neither the device nor the profile has one.
	DefaultCurrency = "USD"
)

var errSignedOut = errors.New("not signed in")

// LocalStore is a small key/value store that outlives the process.
type LocalStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryStore keeps values for the life of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// FileStore keeps values as a JSON object in one file.
type FileStore struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// OpenFileStore loads path, which need not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, values: make(map[string]string)}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fs, nil
	case err != nil:
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fs.values); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

func (f *FileStore) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return f.flush()
}

func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.flush()
}

func (f *FileStore) flush() error {
	raw, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Prefs resolves the display currency of the current device and user.
type Prefs struct {
	store    LocalStore
	session  *Session
	auth     *apiconnect.AuthServiceClient
	currency *apiconnect.CurrencyServiceClient
}

// Currency returns the preferred currency: the device setting first, then
// the profile of the signed-in user, then DefaultCurrency.
func (p *Prefs) Currency() string {
	if code, ok := p.store.Get(currencyKey); ok && code != "" {
		return code
	}
	if u := p.session.User(); u != nil && u.Currency != "" {
		return u.Currency
	}
	return DefaultCurrency
}

// SetCurrency stores code on the device and, when signed in, on the profile.
func (p *Prefs) SetCurrency(ctx context.Context, code string) error {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	code = unit.String()
	if err := p.store.Set(currencyKey, code); err != nil {
		return err
	}
	if p.session.AccessToken() == "" {
		return nil
	}

	resp, err := p.auth.UpdateProfile(ctx, connect.NewRequest(&api.UpdateProfileRequest{Currency: code}))
	if err != nil {
		return err
	}
	p.session.setUser(resp.Msg.User)
	return nil
}

// Convert converts amount from one currency into the preferred one and
// formats it for the user's language.
func (p *Prefs) Convert(ctx context.Context, amount float64, from string) (*api.ConvertResponse, error) {
	req := &api.ConvertRequest{Amount: amount, From: from, To: p.Currency()}
	if u := p.session.User(); u != nil {
		req.Language = u.Language
	}
	resp, err := p.currency.Convert(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
