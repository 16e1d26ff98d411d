package store

import (
	"fmt"
	"path/filepath"

	"tunescore/model"
)

// Settings returns a copy of the current settings.
func (s *Store) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings applies the non-nil fields of patch and persists the result
// immediately; settings never sit behind the dirty flag. A patch that would
// leave ratingMin >= ratingMax is rejected and the stored settings remain in
// force, as does a patch that fails to persist.
func (s *Store) UpdateSettings(patch model.SettingsPatch) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	if patch.RatingMin != nil {
		next.RatingMin = *patch.RatingMin
	}
	if patch.RatingMax != nil {
		next.RatingMax = *patch.RatingMax
	}
	if patch.ShrinkageC != nil {
		c := *patch.ShrinkageC
		if c < 0 {
			c = 0
		}
		next.ShrinkageC = c
	}
	if patch.SidebarMode != nil {
		if *patch.SidebarMode == "album" || *patch.SidebarMode == "related" {
			next.SidebarMode = *patch.SidebarMode
		}
	}

	if next.RatingMin >= next.RatingMax {
		return s.settings, fmt.Errorf("%w: ratingMin must be less than ratingMax", ErrValidation)
	}

	if err := writeSnapshot(filepath.Join(s.dataDir, settingsFile), next); err != nil {
		return s.settings, fmt.Errorf("failed to persist settings: %w", err)
	}
	s.settings = next
	return s.settings, nil
}
