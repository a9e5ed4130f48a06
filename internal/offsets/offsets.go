// Package offsets is the single source of truth for the foreign process's
// structure layout. Updating a game build should touch exactly this file —
// every field path the Snapshot Builder and Temporal Tracker read is named
// here; nowhere else in the codebase hardcodes a byte offset.
package offsets

import "github.com/codjointops/radarflow-bridge/internal/memview"

// Module is the table of module-relative pointers rooted at the client
// module's base address: the entry points the Snapshot Builder resolves
// during pointer refresh, before it ever reaches a per-instance struct
// field in Catalog below.
var Module = struct {
	EntityList      memview.Address
	LocalController memview.Address
	LocalPawn       memview.Address
	PlantedC4       memview.Address
	GlobalVars      memview.Address
	GameRules       memview.Address
}{
	EntityList:      0x1A2B3C0,
	LocalController: 0x1A5F4D8,
	LocalPawn:       0x1A5F4E0,
	PlantedC4:       0x1A6A110,
	GlobalVars:      0x1A10000,
	GameRules:       0x1A20000,
}

// GlobalVars is the layout of the engine's tick/map globals.
var GlobalVars = struct {
	MapName   memview.Address
	TickCount memview.Address
}{
	MapName:   0x20,
	TickCount: 0x8,
}

// GameRules is the layout of the game-rules singleton's round/bomb flags.
var GameRules = struct {
	BombPlanted     memview.Address
	BombDropped     memview.Address
	FreezePeriod    memview.Address
	RoundStartCount memview.Address
}{
	BombPlanted:     0x3A0,
	BombDropped:     0x3A1,
	FreezePeriod:    0x398,
	RoundStartCount: 0x39C,
}

// Catalog is the constant table of byte offsets for fields of the foreign
// client module's structures. Values are placeholders representative of a
// CS2-style client layout; a real deployment replaces this one file when
// the target game build changes.
var Catalog = struct {
	// Entity list / pointer graph.
	EntityListStride memview.Address
	ControllerPawnHandle memview.Address
	PawnSceneNode        memview.Address
	SceneNodeAbsOrigin   memview.Address
	PawnHealth           memview.Address
	PawnTeam             memview.Address
	PawnMoneyServices    memview.Address
	MoneyServicesAccount memview.Address
	PawnWeaponServices   memview.Address
	WeaponServicesActiveWeapon memview.Address
	WeaponDefinitionIndex      memview.Address
	PawnScoped                 memview.Address
	PawnEyeAngleYaw            memview.Address
	ControllerName             memview.Address

	// Bomb-holder / planted-bomb entity fields.
	PawnBombServices    memview.Address
	BombExploded        memview.Address
	BombDefused         memview.Address
	BombBeingDefused    memview.Address
	BombPlantDuration   memview.Address
	BombDefuseDuration  memview.Address
}{
	EntityListStride:           0x78,
	ControllerPawnHandle:       0x7F0,
	PawnSceneNode:              0x328,
	SceneNodeAbsOrigin:         0xD0,
	PawnHealth:                 0x344,
	PawnTeam:                   0x3E3,
	PawnMoneyServices:          0x708,
	MoneyServicesAccount:       0xA0,
	PawnWeaponServices:         0xF20,
	WeaponServicesActiveWeapon: 0x58,
	WeaponDefinitionIndex:      0x1F1E,
	PawnScoped:                 0xA3D,
	PawnEyeAngleYaw:            0x1454,
	ControllerName:             0x770,

	PawnBombServices:   0x15B8,
	BombExploded:       0x3A8,
	BombDefused:        0x3A9,
	BombBeingDefused:   0x3AA,
	BombPlantDuration:  0x3B8,
	BombDefuseDuration: 0x3BC,
}

// AWPWeaponIDs is the set of weapon definition indices classified as an AWP
// for the has_awp derivation.
var AWPWeaponIDs = map[int16]bool{
	9: true, // weapon_awp
}

// MaxPlayers is the game's per-match maximum player slot count.
const MaxPlayers = 64

// NameMaxLen bounds a player name read, per spec's "name ≤ 64 bytes".
const NameMaxLen = 64

// MapNameMaxLen bounds a map name read.
const MapNameMaxLen = 64
