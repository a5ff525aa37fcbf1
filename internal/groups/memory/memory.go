// Package memory keeps the report configuration in process, optionally
// loaded from a YAML file.
package memory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"gagyebu/internal/core"
	"gagyebu/internal/groups"
)

// File is the YAML layout of a groups file.
//
//	groups:
//	  - name: twitch
//	    label: Twitch
//	    merchants: [Twip, 다날_정보서비스]
//	excluded_payment_methods: [학교 계좌, 자유적금]
type File struct {
	Groups                 []core.MerchantGroup `yaml:"groups"`
	ExcludedPaymentMethods []string             `yaml:"excluded_payment_methods"`
}

type Store struct {
	mu       sync.RWMutex
	groups   []core.MerchantGroup
	excluded []string
}

var _ groups.Store = (*Store)(nil)

// New returns a store holding the built-in defaults.
func New() *Store {
	return &Store{
		groups:   groups.DefaultGroups(),
		excluded: groups.DefaultExcludedPaymentMethods(),
	}
}

// NewFromFile loads path. A missing file yields the defaults; a section left
// out of the file keeps its default too.
func NewFromFile(path string) (*Store, error) {
	s := New()
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read groups file: %w", err)
	}
	if err := s.load(b); err != nil {
		return nil, fmt.Errorf("parse groups file %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) load(b []byte) error {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return err
	}
	if f.Groups != nil {
		gs := make([]core.MerchantGroup, 0, len(f.Groups))
		seen := map[string]struct{}{}
		for _, g := range f.Groups {
			ng, err := groups.Normalize(g)
			if err != nil {
				return err
			}
			if _, dup := seen[ng.Name]; dup {
				return fmt.Errorf("%w: duplicate name %s", groups.ErrInvalidGroup, ng.Name)
			}
			seen[ng.Name] = struct{}{}
			gs = append(gs, ng)
		}
		s.groups = gs
	}
	if f.ExcludedPaymentMethods != nil {
		s.excluded = groups.Dedupe(f.ExcludedPaymentMethods)
	}
	return nil
}

// Export renders the configuration held by r as a groups file, so that any
// store can be copied into a file NewFromFile loads.
func Export(ctx context.Context, r groups.Reader) ([]byte, error) {
	gs, err := r.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("export groups: %w", err)
	}
	excluded, err := r.ExcludedPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("export excluded payment methods: %w", err)
	}
	if excluded == nil {
		excluded = []string{}
	}
	return yaml.Marshal(File{Groups: gs, ExcludedPaymentMethods: excluded})
}

func (s *Store) Groups(_ context.Context) ([]core.MerchantGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.MerchantGroup, len(s.groups))
	for i, g := range s.groups {
		g.Merchants = append([]string(nil), g.Merchants...)
		out[i] = g
	}
	return out, nil
}

func (s *Store) ExcludedPaymentMethods(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.excluded...), nil
}

// SaveGroup replaces the group with the same name or appends a new one.
func (s *Store) SaveGroup(_ context.Context, g core.MerchantGroup) error {
	g, err := groups.Normalize(g)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.groups {
		if s.groups[i].Name == g.Name {
			s.groups[i] = g
			return nil
		}
	}
	s.groups = append(s.groups, g)
	return nil
}

func (s *Store) DeleteGroup(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.groups {
		if s.groups[i].Name == name {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", groups.ErrGroupNotFound, name)
}

func (s *Store) SetExcludedPaymentMethods(_ context.Context, labels []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.excluded = groups.Dedupe(labels)
	return nil
}
