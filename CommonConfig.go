package planar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Tuning files let a host keep world and step tunables next to its other
// game configuration. Both YAML and JSON are accepted; any omitted field
// keeps its default, and a missing file yields the defaults outright.

type worldDefFile struct {
	Gravity         *[2]float64 `yaml:"gravity" json:"gravity"`
	LinearSlop      *float64    `yaml:"linearSlop" json:"linearSlop"`
	AngularSlop     *float64    `yaml:"angularSlop" json:"angularSlop"`
	MaxVertexRadius *float64    `yaml:"maxVertexRadius" json:"maxVertexRadius"`
}

type stepConfFile struct {
	Dt                    *float64 `yaml:"dt" json:"dt"`
	RegVelocityIterations *int     `yaml:"regVelocityIterations" json:"regVelocityIterations"`
	RegPositionIterations *int     `yaml:"regPositionIterations" json:"regPositionIterations"`
	ToiVelocityIterations *int     `yaml:"toiVelocityIterations" json:"toiVelocityIterations"`
	ToiPositionIterations *int     `yaml:"toiPositionIterations" json:"toiPositionIterations"`
	MaxSubSteps           *int     `yaml:"maxSubSteps" json:"maxSubSteps"`
	MaxTOIRootIterCount   *int     `yaml:"maxTOIRootIterCount" json:"maxTOIRootIterCount"`
	MaxTOIIterations      *int     `yaml:"maxTOIIterations" json:"maxTOIIterations"`
	VelocityThreshold     *float64 `yaml:"velocityThreshold" json:"velocityThreshold"`
	MaxTranslation        *float64 `yaml:"maxTranslation" json:"maxTranslation"`
	MaxRotation           *float64 `yaml:"maxRotation" json:"maxRotation"`
	MaxLinearCorrection   *float64 `yaml:"maxLinearCorrection" json:"maxLinearCorrection"`
	MaxAngularCorrection  *float64 `yaml:"maxAngularCorrection" json:"maxAngularCorrection"`
	RegResolutionRate     *float64 `yaml:"regResolutionRate" json:"regResolutionRate"`
	ToiResolutionRate     *float64 `yaml:"toiResolutionRate" json:"toiResolutionRate"`
	LinearSleepTolerance  *float64 `yaml:"linearSleepTolerance" json:"linearSleepTolerance"`
	AngularSleepTolerance *float64 `yaml:"angularSleepTolerance" json:"angularSleepTolerance"`
	MinStillTimeToSleep   *float64 `yaml:"minStillTimeToSleep" json:"minStillTimeToSleep"`
	DoWarmStart           *bool    `yaml:"doWarmStart" json:"doWarmStart"`
	DoToi                 *bool    `yaml:"doToi" json:"doToi"`
}

func unmarshalTuningFile(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, nil
	}
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, out); err != nil {
			return false, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, out); err != nil {
			return false, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return true, nil
}

/// Load a WorldDef from a YAML or JSON file. A missing file returns the
/// defaults; a malformed file returns the defaults and an error.
func LoadWorldDef(path string) (WorldDef, error) {
	def := MakeWorldDef()
	var f worldDefFile
	ok, err := unmarshalTuningFile(path, &f)
	if !ok || err != nil {
		return def, err
	}
	if f.Gravity != nil {
		def.Gravity = MakeVec2(f.Gravity[0], f.Gravity[1])
	}
	if f.LinearSlop != nil {
		def.LinearSlop = *f.LinearSlop
	}
	if f.AngularSlop != nil {
		def.AngularSlop = *f.AngularSlop
	}
	if f.MaxVertexRadius != nil {
		def.MaxVertexRadius = *f.MaxVertexRadius
	}
	return def, nil
}

/// Load a StepConf from a YAML or JSON file. A missing file returns the
/// defaults; a malformed file returns the defaults and an error.
func LoadStepConf(path string) (StepConf, error) {
	conf := MakeStepConf()
	var f stepConfFile
	ok, err := unmarshalTuningFile(path, &f)
	if !ok || err != nil {
		return conf, err
	}
	if f.Dt != nil {
		conf.SetTime(*f.Dt)
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setInt(&conf.RegVelocityIterations, f.RegVelocityIterations)
	setInt(&conf.RegPositionIterations, f.RegPositionIterations)
	setInt(&conf.ToiVelocityIterations, f.ToiVelocityIterations)
	setInt(&conf.ToiPositionIterations, f.ToiPositionIterations)
	setInt(&conf.MaxSubSteps, f.MaxSubSteps)
	setInt(&conf.MaxTOIRootIterCount, f.MaxTOIRootIterCount)
	setInt(&conf.MaxTOIIterations, f.MaxTOIIterations)
	setFloat(&conf.VelocityThreshold, f.VelocityThreshold)
	setFloat(&conf.MaxTranslation, f.MaxTranslation)
	setFloat(&conf.MaxRotation, f.MaxRotation)
	setFloat(&conf.MaxLinearCorrection, f.MaxLinearCorrection)
	setFloat(&conf.MaxAngularCorrection, f.MaxAngularCorrection)
	setFloat(&conf.RegResolutionRate, f.RegResolutionRate)
	setFloat(&conf.ToiResolutionRate, f.ToiResolutionRate)
	setFloat(&conf.LinearSleepTolerance, f.LinearSleepTolerance)
	setFloat(&conf.AngularSleepTolerance, f.AngularSleepTolerance)
	setFloat(&conf.MinStillTimeToSleep, f.MinStillTimeToSleep)
	if f.DoWarmStart != nil {
		conf.DoWarmStart = *f.DoWarmStart
	}
	if f.DoToi != nil {
		conf.DoToi = *f.DoToi
	}
	return conf, nil
}

/// Write a StepConf to a YAML (default) or JSON file, creating parent
/// directories as needed.
func SaveStepConf(path string, conf StepConf) error {
	f := stepConfFile{
		Dt:                    &conf.Dt,
		RegVelocityIterations: &conf.RegVelocityIterations,
		RegPositionIterations: &conf.RegPositionIterations,
		ToiVelocityIterations: &conf.ToiVelocityIterations,
		ToiPositionIterations: &conf.ToiPositionIterations,
		MaxSubSteps:           &conf.MaxSubSteps,
		MaxTOIRootIterCount:   &conf.MaxTOIRootIterCount,
		MaxTOIIterations:      &conf.MaxTOIIterations,
		VelocityThreshold:     &conf.VelocityThreshold,
		MaxTranslation:        &conf.MaxTranslation,
		MaxRotation:           &conf.MaxRotation,
		MaxLinearCorrection:   &conf.MaxLinearCorrection,
		MaxAngularCorrection:  &conf.MaxAngularCorrection,
		RegResolutionRate:     &conf.RegResolutionRate,
		ToiResolutionRate:     &conf.ToiResolutionRate,
		LinearSleepTolerance:  &conf.LinearSleepTolerance,
		AngularSleepTolerance: &conf.AngularSleepTolerance,
		MinStillTimeToSleep:   &conf.MinStillTimeToSleep,
		DoWarmStart:           &conf.DoWarmStart,
		DoToi:                 &conf.DoToi,
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var data []byte
	var err error
	if filepath.Ext(path) == ".json" {
		data, err = json.MarshalIndent(&f, "", "\t")
	} else {
		data, err = yaml.Marshal(&f)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
