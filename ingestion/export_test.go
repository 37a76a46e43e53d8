package ingestion

// SwapEndpoints points the portal loaders at a test server and returns
// a restore func.
func SwapEndpoints(education, staffing, crisis string) func() {
	prevEducation := koreanEducationURL
	prevStaffing := interpreterStaffingURL
	prevCrisis := crisisCenterURL

	koreanEducationURL = education
	interpreterStaffingURL = staffing
	crisisCenterURL = crisis

	return func() {
		koreanEducationURL = prevEducation
		interpreterStaffingURL = prevStaffing
		crisisCenterURL = prevCrisis
	}
}
