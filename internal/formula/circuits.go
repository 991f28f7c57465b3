package formula

import "math"

// computePFC sizes a totem pole PFC stage:
//
//	I_ripple = 0.1·√2·P / (Vin_max·η)
//	L        = Vout_max / (12·fs·I_ripple)
//	C        = P / (4π·f_line·V_ripple·Vout_max)
func computePFC(m map[string]float64) (map[string]float64, error) {
	p := &params{m: m}
	vInMin := p.get(VInMin)
	vInMax := p.get(VInMax)
	vOutMax := p.get(VOutMax)
	pOut := p.get(POutMax)
	eff := p.get(Efficiency)
	fs := p.get(SwitchingFreq)
	fLine := p.get(LineFreqMin)
	vRipple := p.get(VRippleMax)
	if err := p.err(); err != nil {
		return nil, err
	}

	ripple, err := div(0.1*math.Sqrt2*pOut, vInMax*eff, RippleCurrent)
	if err != nil {
		return nil, err
	}
	l, err := div(vOutMax, 12*fs*ripple, Inductance)
	if err != nil {
		return nil, err
	}
	c, err := div(pOut, 4*math.Pi*fLine*vRipple*vOutMax, Capacitance)
	if err != nil {
		return nil, err
	}
	// Peak line current at low line sets the switch and inductor stress.
	iPeak, err := div(math.Sqrt2*pOut, vInMin*eff, InputCurrentPeak)
	if err != nil {
		return nil, err
	}

	return map[string]float64{
		RippleCurrent:       ripple,
		Inductance:          l,
		Capacitance:         c,
		InputCurrentPeak:    iPeak,
		InductorPeakCurrent: iPeak + ripple/2,
	}, nil
}

// computeBuck sizes a synchronous buck stage:
//
//	D        = Vout_max / Vin_min
//	L        = (Vin_max − Vout_min)·D / (fs·ΔI)
//	Cout     = ΔI / (8·fs·V_ripple), raised to the transient bound when the
//	           load-step parameters are given
//	Cin      = (P / (η·Vin_min))·D / (fs·Vin_ripple)
func computeBuck(m map[string]float64) (map[string]float64, error) {
	p := &params{m: m}
	vInMin := p.get(VInMin)
	vInMax := p.get(VInMax)
	vOutMin := p.get(VOutMin)
	vOutMax := p.get(VOutMax)
	pOut := p.get(POutMax)
	eff := p.get(Efficiency)
	fs := p.get(SwitchingFreq)
	vRipple := p.get(VRippleMax)
	vInRipple := p.get(VInRipple)
	dI := p.get(IOutRipple)
	if err := p.err(); err != nil {
		return nil, err
	}

	d, err := div(vOutMax, vInMin, DutyCycleMax)
	if err != nil {
		return nil, err
	}
	l, err := div((vInMax-vOutMin)*d, fs*dI, Inductance)
	if err != nil {
		return nil, err
	}
	cRipple, err := div(dI, 8*fs*vRipple, OutputCapRipple)
	if err != nil {
		return nil, err
	}
	iIn, err := div(pOut, eff*vInMin, InputCapacitance)
	if err != nil {
		return nil, err
	}
	cIn, err := div(iIn*d, fs*vInRipple, InputCapacitance)
	if err != nil {
		return nil, err
	}
	iOut, err := div(pOut, vOutMin, OutputCurrent)
	if err != nil {
		return nil, err
	}

	out := map[string]float64{
		DutyCycleMax:        d,
		Inductance:          l,
		OutputCapRipple:     cRipple,
		OutputCapacitance:   cRipple,
		InputCapacitance:    cIn,
		OutputCurrent:       iOut,
		InductorPeakCurrent: iOut + dI/2,
	}

	if p.has(ILoadStep, VOvershoot, VUndershoot) {
		step := m[ILoadStep]
		under, err := div(l*step*step, 2*m[VUndershoot]*(vInMax-vOutMin)*d, OutputCapTransient)
		if err != nil {
			return nil, err
		}
		over, err := div(l*step*step, 2*m[VOvershoot]*vOutMax, OutputCapTransient)
		if err != nil {
			return nil, err
		}
		transient := math.Max(under, over)
		out[OutputCapTransient] = transient
		out[OutputCapacitance] = math.Max(cRipple, transient)
	}
	return out, nil
}
