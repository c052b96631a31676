// Package physics implements a planar two-axle vehicle model.
//
// The model is a single-track ("bicycle") car with separate front and rear
// tire slip, rear-wheel drive, weight transfer under longitudinal
// acceleration and a linear tire model that saturates at the available grip.
// It advances one fixed timestep at a time with explicit Euler integration:
//
//   - [Config]: immutable vehicle parameters, validated once
//   - [Derived]: constants computed from a Config (inertia, wheelbase, axle ratios)
//   - [State]: everything that changes from tick to tick
//   - [Steer], [Integrate]: pure transitions State -> State
//   - [Car]: the single owner that applies both transitions per tick
//
// # Determinism
//
// The order of operations inside [Integrate] is part of the model. The
// longitudinal acceleration used for weight transfer is the one produced by
// the previous tick, and position is advanced from the already updated
// velocity. Re-ordering either changes trajectories.
//
// # Example
//
//	car, err := physics.NewCar(physics.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	car.SetInput(physics.Input{Throttle: 1})
//	car.Tick(1.0 / 30)
//	fmt.Println(car.Position(), car.Speed())
package physics
