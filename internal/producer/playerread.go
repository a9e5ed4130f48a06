package producer

import (
	"github.com/codjointops/radarflow-bridge/internal/memview"
	"github.com/codjointops/radarflow-bridge/internal/offsets"
)

// PlayerRead is the result of one controller+pawn read: the pawn's
// transform/vitals/loadout plus the controller's name.
type PlayerRead struct {
	Pos      [3]float32
	Yaw      float32
	Health   uint32
	Team     int32
	Money    int32
	WeaponID int16
	HasAwp   bool
	IsScoped bool
	Name     string
}

// ReadPlayer reads the controller+pawn fields for one player: pawn
// health/team/position/yaw/money-services/weapon-services/scoped, and the
// controller's name. Each field (and each pointer hop) is a separate
// MemoryView call; MemoryView.BatchedReads is not used, so one player costs
// several transport round-trips.
func ReadPlayer(mv memview.MemoryView, controller, pawn memview.Address) (PlayerRead, error) {
	var pr PlayerRead

	sceneNode, err := memview.ReadAddress(mv, pawn+offsets.Catalog.PawnSceneNode)
	if err != nil {
		return pr, err
	}
	x, y, z, err := memview.ReadVec3(mv, sceneNode+offsets.Catalog.SceneNodeAbsOrigin)
	if err != nil {
		return pr, err
	}
	pr.Pos = [3]float32{x, y, z}

	health, err := memview.ReadUint32(mv, pawn+offsets.Catalog.PawnHealth)
	if err != nil {
		return pr, err
	}
	pr.Health = health

	var teamByte [1]byte
	if err := mv.ReadInto(pawn+offsets.Catalog.PawnTeam, teamByte[:]); err != nil {
		return pr, err
	}
	pr.Team = int32(teamByte[0])

	if moneyServices, err := memview.ReadAddress(mv, pawn+offsets.Catalog.PawnMoneyServices); err == nil && moneyServices != 0 {
		if money, err := memview.ReadInt32(mv, moneyServices+offsets.Catalog.MoneyServicesAccount); err == nil {
			pr.Money = money
		}
	}

	if weaponServices, err := memview.ReadAddress(mv, pawn+offsets.Catalog.PawnWeaponServices); err == nil && weaponServices != 0 {
		if activeWeapon, err := memview.ReadAddress(mv, weaponServices+offsets.Catalog.WeaponServicesActiveWeapon); err == nil && activeWeapon != 0 {
			if weaponID, err := memview.ReadInt16(mv, activeWeapon+offsets.Catalog.WeaponDefinitionIndex); err == nil {
				pr.WeaponID = weaponID
				pr.HasAwp = offsets.AWPWeaponIDs[weaponID]
			}
		}
	}

	var scopedByte [1]byte
	if err := mv.ReadInto(pawn+offsets.Catalog.PawnScoped, scopedByte[:]); err == nil {
		pr.IsScoped = scopedByte[0] != 0
	}

	if yaw, err := memview.ReadFloat32(mv, pawn+offsets.Catalog.PawnEyeAngleYaw); err == nil {
		pr.Yaw = yaw
	}

	name, err := memview.ReadCString(mv, controller+offsets.Catalog.ControllerName, offsets.NameMaxLen)
	if err != nil {
		return pr, err
	}
	pr.Name = name

	return pr, nil
}
