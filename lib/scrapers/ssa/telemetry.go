package ssa

import "usydrc/lib/telemetry"

var tracer = telemetry.Tracer("usydrc.lib.scrapers.ssa")
