package checker

import "usydrc/lib/telemetry"

var tracer = telemetry.Tracer("usydrc.services.checker")
