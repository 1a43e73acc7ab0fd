package config

import (
	"github.com/nujievik/mux-media-sub000/internal/disposition"
	"github.com/nujievik/mux-media-sub000/internal/langcode"
	"github.com/nujievik/mux-media-sub000/internal/rangeid"
	"github.com/nujievik/mux-media-sub000/internal/selector"
	"github.com/nujievik/mux-media-sub000/internal/target"
)

// resolve implements the universal pattern behind Config.field(marker) and
// Config.target(marker, targets) (§4.3): probe targets in order for the
// first present override, falling back to global when none apply or when
// targets is empty. get must return nil when the PartialConfig at t has no
// override for this field.
func resolve[T any](cfg *Config, targets []target.Target, global T, get func(PartialConfig) *T) T {
	for _, t := range targets {
		pc, ok := cfg.Targets[t]
		if !ok {
			continue
		}
		if v := get(pc); v != nil {
			return *v
		}
	}
	return global
}

// AudioSelector returns the audio track selector in effect for targets,
// falling back to the global selector.
func (c *Config) AudioSelector(targets []target.Target) selector.Selector[rangeid.TrackID] {
	return resolve(c, targets, c.Tracks.Audio, func(p PartialConfig) *selector.Selector[rangeid.TrackID] { return p.Tracks.Audio })
}

func (c *Config) SubSelector(targets []target.Target) selector.Selector[rangeid.TrackID] {
	return resolve(c, targets, c.Tracks.Sub, func(p PartialConfig) *selector.Selector[rangeid.TrackID] { return p.Tracks.Sub })
}

func (c *Config) VideoSelector(targets []target.Target) selector.Selector[rangeid.TrackID] {
	return resolve(c, targets, c.Tracks.Video, func(p PartialConfig) *selector.Selector[rangeid.TrackID] { return p.Tracks.Video })
}

func (c *Config) ButtonSelector(targets []target.Target) selector.Selector[rangeid.TrackID] {
	return resolve(c, targets, c.Tracks.Button, func(p PartialConfig) *selector.Selector[rangeid.TrackID] { return p.Tracks.Button })
}

func (c *Config) FontSelector(targets []target.Target) selector.Selector[rangeid.AttachID] {
	return resolve(c, targets, c.Attachs.Font, func(p PartialConfig) *selector.Selector[rangeid.AttachID] { return p.Attachs.Font })
}

func (c *Config) OtherSelector(targets []target.Target) selector.Selector[rangeid.AttachID] {
	return resolve(c, targets, c.Attachs.Other, func(p PartialConfig) *selector.Selector[rangeid.AttachID] { return p.Attachs.Other })
}

func (c *Config) DefaultDispositions(targets []target.Target) disposition.Map[rangeid.TrackID, bool] {
	return resolve(c, targets, c.Disposition.Default, func(p PartialConfig) *disposition.Map[rangeid.TrackID, bool] { return p.Disposition.Default })
}

func (c *Config) ForcedDispositions(targets []target.Target) disposition.Map[rangeid.TrackID, bool] {
	return resolve(c, targets, c.Disposition.Forced, func(p PartialConfig) *disposition.Map[rangeid.TrackID, bool] { return p.Disposition.Forced })
}

func (c *Config) EnabledDispositions(targets []target.Target) disposition.Map[rangeid.TrackID, bool] {
	return resolve(c, targets, c.Disposition.Enabled, func(p PartialConfig) *disposition.Map[rangeid.TrackID, bool] { return p.Disposition.Enabled })
}

func (c *Config) Names(targets []target.Target) disposition.Map[rangeid.TrackID, string] {
	return resolve(c, targets, c.Meta.Names, func(p PartialConfig) *disposition.Map[rangeid.TrackID, string] { return p.Meta.Names })
}

func (c *Config) Langs(targets []target.Target) disposition.Map[rangeid.TrackID, langcode.Code] {
	return resolve(c, targets, c.Meta.Langs, func(p PartialConfig) *disposition.Map[rangeid.TrackID, langcode.Code] { return p.Meta.Langs })
}

// SetPartial merges non-nil fields of p into whatever PartialConfig is
// currently stored for t (creating one if absent). Used while applying CLI
// flags under an active --target scope.
func (c *Config) SetPartial(t target.Target, p PartialConfig) {
	cur := c.Targets[t]
	mergeTrackSelectors(&cur.Tracks, p.Tracks)
	mergeAttachSelectors(&cur.Attachs, p.Attachs)
	mergeDispositions(&cur.Disposition, p.Disposition)
	mergeMetadata(&cur.Meta, p.Meta)
	c.Targets[t] = cur
}

func mergeTrackSelectors(dst *PartialTrackSelectors, src PartialTrackSelectors) {
	if src.Audio != nil {
		dst.Audio = src.Audio
	}
	if src.Sub != nil {
		dst.Sub = src.Sub
	}
	if src.Video != nil {
		dst.Video = src.Video
	}
	if src.Button != nil {
		dst.Button = src.Button
	}
}

func mergeAttachSelectors(dst *PartialAttachSelectors, src PartialAttachSelectors) {
	if src.Font != nil {
		dst.Font = src.Font
	}
	if src.Other != nil {
		dst.Other = src.Other
	}
}

func mergeDispositions(dst *PartialTrackDispositions, src PartialTrackDispositions) {
	if src.Default != nil {
		dst.Default = src.Default
	}
	if src.Forced != nil {
		dst.Forced = src.Forced
	}
	if src.Enabled != nil {
		dst.Enabled = src.Enabled
	}
}

func mergeMetadata(dst *PartialMetadata, src PartialMetadata) {
	if src.Names != nil {
		dst.Names = src.Names
	}
	if src.Langs != nil {
		dst.Langs = src.Langs
	}
}
