/*
Copyright © 2019 the MPDATA authors.
This file is part of MPDATA.

MPDATA is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

MPDATA is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with MPDATA.  If not, see <http://www.gnu.org/licenses/>.
*/

package mpdata

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// DataVersion is the version of the snapshot file layout. It is
// written as a global attribute and checked when a snapshot is read
// back, so layout changes fail loudly instead of scrambling fields.
const DataVersion = "1"

type fileVariable struct {
	dims  []string
	desc  string
	units string
	data  *sparse.DenseArray
}

// fileVariables lists the domain fields under the names they take in
// snapshot files. The staggered wind components get their own
// dimensions so the file is self-describing.
func (d *Domain) fileVariables() map[string]fileVariable {
	vars := map[string]fileVariable{
		"dz":  {[]string{"z"}, "layer thickness", "m", d.Dz},
		"rho": {[]string{"z", "y", "x"}, "air density", "kg m-3", d.Rho},
		"u":   {[]string{"z", "y", "xStagger"}, "west-east wind speed on x faces", "m s-1", d.U},
		"v":   {[]string{"z", "yStagger", "x"}, "south-north wind speed on y faces", "m s-1", d.V},
		"w":   {[]string{"z", "y", "x"}, "vertical wind speed on layer top faces", "m s-1", d.W},
	}
	for i, name := range scalarNames {
		vars[name] = fileVariable{[]string{"z", "y", "x"}, scalarDescs[i], scalarUnits[i], d.Scalars[i]}
	}
	return vars
}

// Write writes the complete domain state to w as a netcdf file.
func (d *Domain) Write(w *os.File) error {
	h := cdf.NewHeader(
		[]string{"z", "y", "x", "xStagger", "yStagger"},
		[]int{d.Nz, d.Ny, d.Nx, d.Nx - 1, d.Ny - 1})
	h.AddAttribute("", "comment", "MPDATA model state snapshot")
	h.AddAttribute("", "data_version", DataVersion)
	h.AddAttribute("", "dx", []float64{d.Dx})
	h.AddAttribute("", "nx", []int32{int32(d.Nx)})
	h.AddAttribute("", "ny", []int32{int32(d.Ny)})
	h.AddAttribute("", "nz", []int32{int32(d.Nz)})

	vars := d.fileVariables()
	// Sort the names so they write in the same order every time.
	names := make([]string, 0, len(vars))
	for n := range vars {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		v := vars[name]
		h.AddVariable(name, v.dims, []float32{0})
		h.AddAttribute(name, "description", v.desc)
		h.AddAttribute(name, "units", v.units)
	}
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return err
	}
	for _, name := range names {
		if err = writeNCF(f, name, vars[name].data); err != nil {
			return fmt.Errorf("mpdata: writing variable %s to netcdf file: %v", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

// ReadDomain loads a domain state snapshot written by (*Domain).Write.
func ReadDomain(rw cdf.ReaderWriterAt) (*Domain, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("mpdata.ReadDomain: %v", err)
	}
	if v, ok := f.Header.GetAttribute("", "data_version").(string); !ok || v != DataVersion {
		return nil, fmt.Errorf("mpdata.ReadDomain: file data version is not %s", DataVersion)
	}
	nx := int(f.Header.GetAttribute("", "nx").([]int32)[0])
	ny := int(f.Header.GetAttribute("", "ny").([]int32)[0])
	nz := int(f.Header.GetAttribute("", "nz").([]int32)[0])
	dx := f.Header.GetAttribute("", "dx").([]float64)[0]

	d := NewDomain(nx, ny, nz, dx, 0)
	vars := d.fileVariables()
	for _, name := range f.Header.Variables() {
		v, ok := vars[name]
		if !ok {
			return nil, fmt.Errorf("mpdata.ReadDomain: unexpected variable %s", name)
		}
		if err := readNCF(f, name, v.data); err != nil {
			return nil, fmt.Errorf("mpdata.ReadDomain: reading variable %s: %v", name, err)
		}
	}
	return d, nil
}

func writeNCF(f *cdf.File, name string, data *sparse.DenseArray) error {
	// Check that data matches dimensions.
	n := 1
	for _, v := range data.Shape {
		n *= v
	}
	if len(data.Elements) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(data.Elements))
	}

	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	_, err := w.Write(data32)
	return err
}

func readNCF(f *cdf.File, name string, dst *sparse.DenseArray) error {
	dims := f.Header.Lengths(name)
	n := 1
	for _, v := range dims {
		n *= v
	}
	if len(dst.Elements) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(dst.Elements))
	}
	r := f.Reader(name, nil, nil)
	tmp := make([]float32, n)
	if _, err := r.Read(tmp); err != nil {
		return err
	}
	for i, v := range tmp {
		dst.Elements[i] = float64(v)
	}
	return nil
}

// Outputter computes derived per-cell diagnostic fields from
// user-supplied expressions and writes them to a netcdf file.
//
// fileName contains the path where the output will be saved.
//
// outputVariables maps the names of the variables for which data
// should be returned to expressions that define how the requested data
// should be calculated. The expressions can use the transported scalar
// fields by name (qv, qc, qr, qs, theta, qi, qg, ni, nr) plus the air
// density rho, and the functions in outputFunctions.
type Outputter struct {
	fileName        string
	outputVariables map[string]string
	outputFunctions map[string]govaluate.ExpressionFunction
	expressions     map[string]*govaluate.EvaluableExpression
}

var validOutputName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// NewOutputter initializes a new Outputter holder and adds a set of
// default output functions. Default functions include:
//
// 'exp(x)' which applies the exponential function e^x.
//
// 'abs(x)' which takes the absolute value of x.
//
// 'min(x, ...)' and 'max(x, ...)' which take the minimum and maximum
// of their arguments.
func NewOutputter(fileName string, outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	defaultOutputFuncs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("mpdata: got %d arguments for function 'exp', but needs 1", len(arg))
			}
			return math.Exp(arg[0].(float64)), nil
		},
		"abs": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("mpdata: got %d arguments for function 'abs', but needs 1", len(arg))
			}
			return math.Abs(arg[0].(float64)), nil
		},
		"min": func(arg ...interface{}) (interface{}, error) {
			vs, err := floatArgs("min", arg)
			if err != nil {
				return nil, err
			}
			return min(vs...), nil
		},
		"max": func(arg ...interface{}) (interface{}, error) {
			vs, err := floatArgs("max", arg)
			if err != nil {
				return nil, err
			}
			return max(vs...), nil
		},
	}
	for key, val := range outputFunctions {
		defaultOutputFuncs[key] = val
	}

	o := &Outputter{
		fileName:        fileName,
		outputVariables: outputVariables,
		outputFunctions: defaultOutputFuncs,
		expressions:     make(map[string]*govaluate.EvaluableExpression, len(outputVariables)),
	}

	avail := make(map[string]bool, nScalars+1)
	for _, n := range scalarNames {
		avail[n] = true
	}
	avail["rho"] = true

	for name, val := range o.outputVariables {
		if !validOutputName.MatchString(name) {
			return nil, fmt.Errorf("mpdata: output variable name '%s' includes unsupported characters", name)
		}
		expression, err := govaluate.NewEvaluableExpressionWithFunctions(val, o.outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("mpdata: output variable %s: %v", name, err)
		}
		for _, v := range expression.Vars() {
			if !avail[v] {
				return nil, fmt.Errorf("mpdata: output variable %s uses unknown field %s", name, v)
			}
		}
		o.expressions[name] = expression
	}
	return o, nil
}

func floatArgs(fn string, arg []interface{}) ([]float64, error) {
	if len(arg) == 0 {
		return nil, fmt.Errorf("mpdata: function '%s' needs at least 1 argument", fn)
	}
	vs := make([]float64, len(arg))
	for i, a := range arg {
		v, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("mpdata: function '%s' got non-numeric argument %v", fn, a)
		}
		vs[i] = v
	}
	return vs, nil
}

// Results evaluates every output expression in every grid cell of d.
func (o *Outputter) Results(d *Domain) (map[string]*sparse.DenseArray, error) {
	results := make(map[string]*sparse.DenseArray, len(o.expressions))
	for name := range o.expressions {
		results[name] = sparse.ZerosDense(d.Nz, d.Ny, d.Nx)
	}
	params := make(map[string]interface{}, nScalars+1)
	for c := range d.Rho.Elements {
		for si, n := range scalarNames {
			params[n] = d.Scalars[si].Elements[c]
		}
		params["rho"] = d.Rho.Elements[c]
		for name, expression := range o.expressions {
			v, err := expression.Evaluate(params)
			if err != nil {
				return nil, fmt.Errorf("mpdata: evaluating output variable %s: %v", name, err)
			}
			vf, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("mpdata: output variable %s evaluated to %v; want a number", name, v)
			}
			results[name].Elements[c] = vf
		}
	}
	return results, nil
}

// Output returns a simulation operator that evaluates the output
// expressions against the current model state and writes the results
// to the outputter's file.
func (o *Outputter) Output() DomainManipulator {
	return func(s *Simulation) error {
		results, err := o.Results(s.Domain)
		if err != nil {
			return err
		}
		w, err := os.Create(o.fileName)
		if err != nil {
			return fmt.Errorf("mpdata: creating output file: %v", err)
		}
		defer w.Close()

		d := s.Domain
		h := cdf.NewHeader([]string{"z", "y", "x"}, []int{d.Nz, d.Ny, d.Nx})
		h.AddAttribute("", "comment", "MPDATA derived model output")
		h.AddAttribute("", "data_version", DataVersion)
		h.AddAttribute("", "dx", []float64{d.Dx})

		names := make([]string, 0, len(results))
		for n := range results {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, name := range names {
			h.AddVariable(name, []string{"z", "y", "x"}, []float32{0})
			h.AddAttribute(name, "description", o.outputVariables[name])
			h.AddAttribute(name, "units", "derived")
		}
		h.Define()

		f, err := cdf.Create(w, h)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := writeNCF(f, name, results[name]); err != nil {
				return fmt.Errorf("mpdata: writing output variable %s: %v", name, err)
			}
		}
		return cdf.UpdateNumRecs(w)
	}
}

// expandStep replaces the [step] wildcard in a file name template with
// the given timestep number, so periodic snapshots don't overwrite
// each other.
func expandStep(template string, step int) string {
	return strings.Replace(template, "[step]", fmt.Sprintf("%06d", step), -1)
}
