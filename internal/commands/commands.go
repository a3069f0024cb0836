package commands

// Command represents a typed command for the GameService executor.
type Command interface {
	CommandID() string
	Name() string
}

// SyncState requests a state snapshot without changing game state.
type SyncState struct {
	ID string
}

func (c SyncState) CommandID() string {
	return c.ID
}

func (c SyncState) Name() string {
	return "SyncState"
}

// Tick advances the simulation to the service clock's current time.
type Tick struct {
	ID string
}

func (c Tick) CommandID() string {
	return c.ID
}

func (c Tick) Name() string {
	return "Tick"
}

// Attack is a player click. A nil TargetGeneratorID auto-targets shields.
// Accepted is false when the throttle dropped the click.
type Attack struct {
	ID                string
	TargetGeneratorID *string
	Accepted          bool
	DamageDealt       float64
	Crit              bool
}

func (c *Attack) CommandID() string {
	return c.ID
}

func (c *Attack) Name() string {
	return "Attack"
}

// BuyUpgrade purchases one level of an upgrade with stardust.
type BuyUpgrade struct {
	ID        string
	UpgradeID string
	Bought    bool
}

func (c *BuyUpgrade) CommandID() string {
	return c.ID
}

func (c *BuyUpgrade) Name() string {
	return "BuyUpgrade"
}

// BuyArtifact purchases one level of an artifact with prestige gems.
type BuyArtifact struct {
	ID         string
	ArtifactID string
	Bought     bool
}

func (c *BuyArtifact) CommandID() string {
	return c.ID
}

func (c *BuyArtifact) Name() string {
	return "BuyArtifact"
}

// ActivateSkill starts a ready skill.
type ActivateSkill struct {
	ID        string
	SkillID   string
	Activated bool
}

func (c *ActivateSkill) CommandID() string {
	return c.ID
}

func (c *ActivateSkill) Name() string {
	return "ActivateSkill"
}

// ToggleAutoBuy sets the auto-buy flag.
type ToggleAutoBuy struct {
	ID      string
	Enabled bool
}

func (c ToggleAutoBuy) CommandID() string {
	return c.ID
}

func (c ToggleAutoBuy) Name() string {
	return "ToggleAutoBuy"
}

// Prestige resets the run and exposes the gems awarded.
type Prestige struct {
	ID          string
	GemsAwarded int64
}

func (c *Prestige) CommandID() string {
	return c.ID
}

func (c *Prestige) Name() string {
	return "Prestige"
}

// ExportSave serializes the current snapshot into Data.
type ExportSave struct {
	ID   string
	Data []byte
}

func (c *ExportSave) CommandID() string {
	return c.ID
}

func (c *ExportSave) Name() string {
	return "ExportSave"
}

// ImportSave replaces the current snapshot with an uploaded save.
type ImportSave struct {
	ID   string
	Data []byte
}

func (c ImportSave) CommandID() string {
	return c.ID
}

func (c ImportSave) Name() string {
	return "ImportSave"
}
