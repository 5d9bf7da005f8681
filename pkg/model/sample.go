package model

import (
	"github.com/aretw0/sysml/pkg/domain"
)

// Sample model ids. They are fixed so tests and demos can refer to them.
const (
	SamplePackageID          = "pkg-vehicle"
	SampleVehicleID          = "def-vehicle"
	SamplePowerSourceID      = "def-power-source"
	SampleEngineID           = "def-engine"
	SampleFuelTankID         = "def-fuel-tank"
	SampleFuelPortID         = "def-fuel-port"
	SampleFuelLineID         = "def-fuel-line"
	SampleDriveID            = "def-drive"
	SampleMassID             = "feat-mass"
	SampleSpeedID            = "feat-speed"
	SampleEngineUsageID      = "usage-engine"
	SampleTankUsageID        = "usage-tank"
	SampleFuelInID           = "usage-fuel-in"
	SampleFuelOutID          = "usage-fuel-out"
	SampleFuelLineUsageID    = "usage-fuel-line"
	SampleStartActionID      = "action-start"
	SampleChooseGearActionID = "action-choose-gear"
	SampleAccelerateID       = "action-accelerate"
	SampleCruiseID           = "action-cruise"
)

// InitializeSampleModel replaces the model with a small vehicle model and
// clears the history. The result passes Validate.
func (s *Store) InitializeSampleModel() error {
	return s.load(SampleDocument())
}

func named[T any, P interface {
	*T
	domain.Element
}](id, name, description string) P {
	p := P(new(T))
	b := p.Attrs()
	b.ID = id
	b.Name = name
	b.Description = description
	return p
}

// SampleDocument builds the vehicle model used by InitializeSampleModel.
// Each call returns fresh objects.
func SampleDocument() *domain.Document {
	powerSource := named[domain.PartDefinition](SamplePowerSourceID, "PowerSource", "Anything that propels the vehicle.")
	powerSource.IsAbstract = true

	vehicle := named[domain.PartDefinition](SampleVehicleID, "Vehicle", "A road vehicle.")
	engine := named[domain.PartDefinition](SampleEngineID, "Engine", "Combustion engine.")
	engine.SpecializationIDs = []string{SamplePowerSourceID}
	tank := named[domain.PartDefinition](SampleFuelTankID, "FuelTank", "Stores fuel.")

	mass := named[domain.Feature](SampleMassID, "mass", "Curb mass in kg.")
	one := domain.NewMultiplicity(1, 1)
	mass.Multiplicity = &one
	mass.IsReadOnly = true
	mass.OwnerID = SampleVehicleID
	vehicle.OwnedFeatures = []string{SampleMassID}

	speed := named[domain.Feature](SampleSpeedID, "speed", "Current speed in km/h.")
	speed.Direction = domain.DirectionIn

	fuelPort := named[domain.PortDefinition](SampleFuelPortID, "FuelPort", "Carries fuel.")
	fuelPort.FlowItemTypes = []string{"Fuel"}

	engineUsage := named[domain.PartUsage](SampleEngineUsageID, "engine", "")
	engineUsage.OwnerID = SampleVehicleID
	engineUsage.IsComposite = true
	tankUsage := named[domain.PartUsage](SampleTankUsageID, "tank", "")
	tankUsage.OwnerID = SampleVehicleID
	tankUsage.IsComposite = true
	engine.RegisterPartUsage(engineUsage)
	tank.RegisterPartUsage(tankUsage)

	fuelIn := named[domain.PortUsage](SampleFuelInID, "fuelIn", "")
	fuelIn.Direction = domain.DirectionIn
	fuelIn.OwnerID = SampleEngineUsageID
	fuelOut := named[domain.PortUsage](SampleFuelOutID, "fuelOut", "")
	fuelOut.Direction = domain.DirectionOut
	fuelOut.OwnerID = SampleTankUsageID
	fuelPort.RegisterPortUsage(fuelIn)
	fuelPort.RegisterPortUsage(fuelOut)
	engineUsage.PortUsages = []string{SampleFuelInID}
	tankUsage.PortUsages = []string{SampleFuelOutID}

	fuelLine := named[domain.ConnectionDefinition](SampleFuelLineID, "FuelLine", "Feeds fuel from tank to engine.")
	fuelLine.SourceTypeID = SampleFuelTankID
	fuelLine.TargetTypeID = SampleEngineID
	fuelLineUsage := fuelLine.Connect(tankUsage, engineUsage, domain.ConnectOptions{ID: SampleFuelLineUsageID})

	drive := named[domain.ActionDefinition](SampleDriveID, "Drive", "Drive the vehicle.")
	drive.Parameters = []string{SampleSpeedID}

	start := named[domain.ActionUsage](SampleStartActionID, "start", "")
	start.Parameters = []string{SampleSpeedID}
	start.Successions = []string{SampleChooseGearActionID}

	chooseGear := named[domain.IfActionUsage](SampleChooseGearActionID, "chooseGear", "")
	chooseGear.AddBranch("branch-low", "speed < 30", SampleAccelerateID)
	chooseGear.AddElse("branch-else", SampleCruiseID)

	accelerate := named[domain.LoopActionUsage](SampleAccelerateID, "accelerate", "")
	accelerate.LoopType = domain.LoopWhile
	accelerate.Condition = "speed < 30"
	accelerate.BodyActions = []string{SampleCruiseID}
	maxIterations := 100
	accelerate.MaxIterations = &maxIterations

	cruise := named[domain.ActionUsage](SampleCruiseID, "cruise", "")

	for _, a := range []domain.Element{start, chooseGear, accelerate, cruise} {
		drive.RegisterActionUsage(a)
	}

	pkg := named[domain.Package](SamplePackageID, "VehicleModel", "Sample vehicle model.")

	elements := []domain.Element{
		pkg,
		powerSource, vehicle, engine, tank,
		mass, speed,
		fuelPort, engineUsage, tankUsage, fuelIn, fuelOut,
		fuelLine, fuelLineUsage,
		drive, start, chooseGear, accelerate, cruise,
	}
	for _, e := range elements[1:] {
		pkg.Members = append(pkg.Members, e.Attrs().ID)
	}
	pkg.Imports = []string{}

	return &domain.Document{
		Elements: elements,
		Relationships: []domain.Relationship{
			{ID: "rel-vehicle-mass", Type: domain.RelFeatureMembership, SourceID: SampleVehicleID, TargetID: SampleMassID},
			{ID: "rel-engine-power", Type: domain.RelSpecialization, SourceID: SampleEngineID, TargetID: SamplePowerSourceID},
			{ID: "rel-fuel-line", Type: domain.RelConnection, SourceID: SampleTankUsageID, TargetID: SampleEngineUsageID, Name: "fuelLine"},
			{ID: "rel-start-choose", Type: domain.RelSuccession, SourceID: SampleStartActionID, TargetID: SampleChooseGearActionID},
		},
	}
}
