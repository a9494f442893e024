package doctor

// Doctor manages and executes health checks.
type Doctor struct {
	checks []Check
}

// New creates a Doctor with no registered checks.
func New() *Doctor {
	return &Doctor{}
}

// Register adds checks to the doctor's check list.
func (d *Doctor) Register(checks ...Check) {
	d.checks = append(d.checks, checks...)
}

// Checks returns the list of registered checks.
func (d *Doctor) Checks() []Check {
	return d.checks
}

// Run executes all registered checks and returns a report.
func (d *Doctor) Run(ctx *CheckContext) *Report {
	report := NewReport()
	for _, check := range d.checks {
		result := check.Run(ctx)
		if result.Name == "" {
			result.Name = check.Name()
		}
		report.Add(result)
	}
	return report
}

// RunRequired executes only the checks that gate a capture run.
func (d *Doctor) RunRequired(ctx *CheckContext) *Report {
	report := NewReport()
	for _, check := range d.checks {
		if !check.Required() {
			continue
		}
		result := check.Run(ctx)
		if result.Name == "" {
			result.Name = check.Name()
		}
		report.Add(result)
	}
	return report
}

// Default returns a doctor with the standard heapherd checks registered.
func Default() *Doctor {
	d := New()
	d.Register(
		NewToolCheck("javac", "javac -version compiles the test programs", true),
		NewToolCheck("java", "java runs the compiled programs under supervision", true),
		NewToolCheck("jmap", "jmap captures heap dumps and histograms", true),
		NewProgramsDirCheck(),
		NewOutputDirCheck(),
	)
	return d
}
