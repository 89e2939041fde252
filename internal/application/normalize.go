package application

// HealthDeclarationInput is the trust-boundary shape of the health step.
// Legacy clients send the disclosure flags as booleans or as the strings
// "true"/"True", so each flag arrives untyped and is normalized exactly once
// here. The set of normalized fields is this explicit struct — never
// inferred from value shape.
type HealthDeclarationInput struct {
	HasMedicalCondition   any `json:"hasMedicalCondition"`
	TakesMedication       any `json:"takesMedication"`
	HasHospitalization    any `json:"hasHospitalization"`
	HasHeartDisease       any `json:"hasHeartDisease"`
	HasCancer             any `json:"hasCancer"`
	HasDiabetes           any `json:"hasDiabetes"`
	IsSmoker              any `json:"isSmoker"`
	ConsumesAlcohol       any `json:"consumesAlcohol"`
	HasFamilyHistory      any `json:"hasFamilyHistory"`
	IsPregnant            any `json:"isPregnant"`
	HasOccupationalHazard any `json:"hasOccupationalHazard"`
	HasHazardousHobby     any `json:"hasHazardousHobby"`

	Conditions    []HealthDetail `json:"conditions"`
	Medications   []HealthDetail `json:"medications"`
	Surgeries     []HealthDetail `json:"surgeries"`
	FamilyHistory []HealthDetail `json:"familyHistory"`
}

// normalizeBool maps true, "true" and "True" to true; every other value,
// including absence, is false. This is the only place the core coerces
// loosely-typed input instead of rejecting it.
func normalizeBool(v any) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		return value == "true" || value == "True"
	default:
		return false
	}
}

// NormalizeHealthDeclaration converts the loosely-typed input into the
// strongly-typed declaration stored on the aggregate.
func NormalizeHealthDeclaration(in HealthDeclarationInput) *HealthDeclaration {
	return &HealthDeclaration{
		HasMedicalCondition:   normalizeBool(in.HasMedicalCondition),
		TakesMedication:       normalizeBool(in.TakesMedication),
		HasHospitalization:    normalizeBool(in.HasHospitalization),
		HasHeartDisease:       normalizeBool(in.HasHeartDisease),
		HasCancer:             normalizeBool(in.HasCancer),
		HasDiabetes:           normalizeBool(in.HasDiabetes),
		IsSmoker:              normalizeBool(in.IsSmoker),
		ConsumesAlcohol:       normalizeBool(in.ConsumesAlcohol),
		HasFamilyHistory:      normalizeBool(in.HasFamilyHistory),
		IsPregnant:            normalizeBool(in.IsPregnant),
		HasOccupationalHazard: normalizeBool(in.HasOccupationalHazard),
		HasHazardousHobby:     normalizeBool(in.HasHazardousHobby),

		Conditions:    in.Conditions,
		Medications:   in.Medications,
		Surgeries:     in.Surgeries,
		FamilyHistory: in.FamilyHistory,
	}
}
