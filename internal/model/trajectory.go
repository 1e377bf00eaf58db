package model

// Trajectory is the ordered sequence of fractional input levels a
// technology passes through during a slow (multi-timestep) startup or
// shutdown. Startup levels climb toward min part load; shutdown is the
// same ladder descended.
type Trajectory []float64

// StartupTrajectory computes the startup ladder: step i of su carries
// minPartLoad/(su+1) * i, strictly increasing and strictly below
// minPartLoad.
func StartupTrajectory(minPartLoad float64, su int) Trajectory {
	if su <= 0 {
		return nil
	}
	tr := make(Trajectory, su)
	for i := 1; i <= su; i++ {
		tr[i-1] = minPartLoad / float64(su+1) * float64(i)
	}
	return tr
}

// ShutdownTrajectory is the startup construction reversed: strictly
// decreasing from just below minPartLoad toward zero.
func ShutdownTrajectory(minPartLoad float64, sd int) Trajectory {
	up := StartupTrajectory(minPartLoad, sd)
	tr := make(Trajectory, len(up))
	for i, v := range up {
		tr[len(up)-1-i] = v
	}
	return tr
}
