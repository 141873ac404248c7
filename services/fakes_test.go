package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/role"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func tenantErr(t repository.Tenant) error {
	if t.IsSystem() {
		return repository.ErrNoTenant
	}
	return nil
}

type fakeUsers struct {
	docs map[primitive.ObjectID]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{docs: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	if u.OrganizationCode == "" {
		return repository.ErrNoTenant
	}
	for _, d := range f.docs {
		if d.OrganizationCode == u.OrganizationCode && d.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.docs[u.ID] = *u
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, t repository.Tenant, id primitive.ObjectID) (*models.User, error) {
	if err := tenantErr(t); err != nil {
		return nil, err
	}
	d, ok := f.docs[id]
	if !ok || d.OrganizationCode != t.Code() {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, t repository.Tenant, email string) (*models.User, error) {
	if err := tenantErr(t); err != nil {
		return nil, err
	}
	for _, d := range f.docs {
		if d.OrganizationCode == t.Code() && d.Email == email {
			out := d
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) ExistsByEmployeeCode(_ context.Context, t repository.Tenant, code string) (bool, error) {
	if err := tenantErr(t); err != nil {
		return false, err
	}
	for _, d := range f.docs {
		if d.OrganizationCode == t.Code() && d.EmployeeCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) List(_ context.Context, t repository.Tenant, filter repository.UserFilter) ([]models.User, error) {
	if err := tenantErr(t); err != nil {
		return nil, err
	}
	out := []models.User{}
	for _, d := range f.docs {
		if d.OrganizationCode != t.Code() ||
			filter.Status != "" && d.Status != filter.Status ||
			filter.Department != "" && d.Department != filter.Department ||
			filter.Role != 0 && d.Role != filter.Role {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakeUsers) Update(_ context.Context, t repository.Tenant, u *models.User) error {
	if err := tenantErr(t); err != nil {
		return err
	}
	d, ok := f.docs[u.ID]
	if !ok || d.OrganizationCode != t.Code() {
		return repository.ErrNotFound
	}
	f.docs[u.ID] = *u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, t repository.Tenant, id primitive.ObjectID) error {
	if _, err := f.FindByID(context.Background(), t, id); err != nil {
		return err
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeUsers) CountByRole(_ context.Context, t repository.Tenant, level role.Level) (int64, error) {
	if err := tenantErr(t); err != nil {
		return 0, err
	}
	var n int64
	for _, d := range f.docs {
		if d.OrganizationCode == t.Code() && d.Role == level {
			n++
		}
	}
	return n, nil
}

func (f *fakeUsers) FindActiveAbove(_ context.Context, t repository.Tenant, level role.Level) ([]models.User, error) {
	if err := tenantErr(t); err != nil {
		return nil, err
	}
	out := []models.User{}
	for _, d := range f.docs {
		if d.OrganizationCode == t.Code() && d.Status == models.UserStatusActive && d.Role < level {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].FullName < out[j].FullName
	})
	return out, nil
}

type fakeOrgs struct {
	docs map[string]models.Organization
}

func newFakeOrgs() *fakeOrgs {
	return &fakeOrgs{docs: map[string]models.Organization{}}
}

func (f *fakeOrgs) Create(_ context.Context, org *models.Organization) error {
	if _, ok := f.docs[org.Code]; ok {
		return repository.ErrDuplicate
	}
	org.ID = primitive.NewObjectID()
	f.docs[org.Code] = *org
	return nil
}

func (f *fakeOrgs) FindByCode(_ context.Context, code string) (*models.Organization, error) {
	d, ok := f.docs[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (f *fakeOrgs) List(context.Context) ([]models.Organization, error) {
	out := []models.Organization{}
	for _, d := range f.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (f *fakeOrgs) Update(_ context.Context, org *models.Organization) error {
	if _, ok := f.docs[org.Code]; !ok {
		return repository.ErrNotFound
	}
	f.docs[org.Code] = *org
	return nil
}

type fakeRoles struct {
	docs map[primitive.ObjectID]models.Role
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{docs: map[primitive.ObjectID]models.Role{}}
}

func roleVisible(t repository.Tenant, r models.Role) bool {
	return r.IsSystemRole || !t.IsSystem() && r.OrganizationCode == t.Code()
}

func roleExact(t repository.Tenant, r models.Role) bool {
	if t.IsSystem() {
		return r.IsSystemRole
	}
	return r.OrganizationCode == t.Code()
}

func (f *fakeRoles) Create(_ context.Context, r *models.Role) error {
	if r.OrganizationCode == "" && !r.IsSystemRole {
		return repository.ErrNoTenant
	}
	for _, d := range f.docs {
		if d.Name == r.Name && d.OrganizationCode == r.OrganizationCode {
			return repository.ErrDuplicate
		}
	}
	r.ID = primitive.NewObjectID()
	r.Permissions = append([]primitive.ObjectID{}, r.Permissions...)
	f.docs[r.ID] = *r
	return nil
}

func (f *fakeRoles) FindByID(_ context.Context, t repository.Tenant, id primitive.ObjectID) (*models.Role, error) {
	d, ok := f.docs[id]
	if !ok || !roleVisible(t, d) {
		return nil, repository.ErrNotFound
	}
	d.Permissions = append([]primitive.ObjectID{}, d.Permissions...)
	return &d, nil
}

func (f *fakeRoles) FindByName(_ context.Context, t repository.Tenant, name string) (*models.Role, error) {
	for _, d := range f.docs {
		if d.Name == name && roleExact(t, d) {
			out := d
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRoles) List(_ context.Context, t repository.Tenant) ([]models.Role, error) {
	out := []models.Role{}
	for _, d := range f.docs {
		if roleVisible(t, d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (f *fakeRoles) FindActiveByLevel(_ context.Context, t repository.Tenant, level role.Level) ([]models.Role, error) {
	out := []models.Role{}
	for _, d := range f.docs {
		if roleVisible(t, d) && d.IsActive && d.Level == level {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRoles) mutable(t repository.Tenant, id primitive.ObjectID) (models.Role, error) {
	if err := tenantErr(t); err != nil {
		return models.Role{}, err
	}
	d, ok := f.docs[id]
	if !ok || d.IsSystemRole || d.OrganizationCode != t.Code() {
		return models.Role{}, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeRoles) Update(_ context.Context, t repository.Tenant, r *models.Role) error {
	if _, err := f.mutable(t, r.ID); err != nil {
		return err
	}
	f.docs[r.ID] = *r
	return nil
}

func (f *fakeRoles) AddPermissions(_ context.Context, t repository.Tenant, id primitive.ObjectID, ids []primitive.ObjectID) error {
	d, err := f.mutable(t, id)
	if err != nil {
		return err
	}
	for _, pid := range ids {
		if !d.HasPermissionID(pid) {
			d.Permissions = append(d.Permissions, pid)
		}
	}
	f.docs[id] = d
	return nil
}

func (f *fakeRoles) RemovePermissions(_ context.Context, t repository.Tenant, id primitive.ObjectID, ids []primitive.ObjectID) error {
	d, err := f.mutable(t, id)
	if err != nil {
		return err
	}
	kept := []primitive.ObjectID{}
	for _, pid := range d.Permissions {
		drop := false
		for _, r := range ids {
			drop = drop || r == pid
		}
		if !drop {
			kept = append(kept, pid)
		}
	}
	d.Permissions = kept
	f.docs[id] = d
	return nil
}

func (f *fakeRoles) Delete(_ context.Context, t repository.Tenant, id primitive.ObjectID) error {
	if _, err := f.mutable(t, id); err != nil {
		return err
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeRoles) CountReferencing(_ context.Context, permissionID primitive.ObjectID) (int64, error) {
	var n int64
	for _, d := range f.docs {
		if d.HasPermissionID(permissionID) {
			n++
		}
	}
	return n, nil
}

type fakePermissions struct {
	docs map[primitive.ObjectID]models.Permission
}

func newFakePermissions() *fakePermissions {
	return &fakePermissions{docs: map[primitive.ObjectID]models.Permission{}}
}

func permissionVisible(t repository.Tenant, p models.Permission) bool {
	return p.IsSystemPermission || !t.IsSystem() && p.OrganizationCode == t.Code()
}

func (f *fakePermissions) Create(_ context.Context, p *models.Permission) error {
	if p.OrganizationCode == "" && !p.IsSystemPermission {
		return repository.ErrNoTenant
	}
	for _, d := range f.docs {
		if d.Name == p.Name && d.OrganizationCode == p.OrganizationCode {
			return repository.ErrDuplicate
		}
	}
	p.ID = primitive.NewObjectID()
	f.docs[p.ID] = *p
	return nil
}

func (f *fakePermissions) FindByID(_ context.Context, t repository.Tenant, id primitive.ObjectID) (*models.Permission, error) {
	d, ok := f.docs[id]
	if !ok || !permissionVisible(t, d) {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (f *fakePermissions) FindByIDs(_ context.Context, t repository.Tenant, ids []primitive.ObjectID) ([]models.Permission, error) {
	out := []models.Permission{}
	for _, id := range ids {
		if d, ok := f.docs[id]; ok && permissionVisible(t, d) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakePermissions) FindByName(_ context.Context, t repository.Tenant, name string) (*models.Permission, error) {
	for _, d := range f.docs {
		if d.Name != name {
			continue
		}
		if t.IsSystem() && d.IsSystemPermission || !t.IsSystem() && d.OrganizationCode == t.Code() {
			out := d
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePermissions) List(_ context.Context, t repository.Tenant, module string) ([]models.Permission, error) {
	out := []models.Permission{}
	for _, d := range f.docs {
		if permissionVisible(t, d) && (module == "" || d.Module == module) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func permissionOwned(t repository.Tenant, p models.Permission) bool {
	if t.IsSystem() {
		return p.IsSystemPermission
	}
	return !p.IsSystemPermission && p.OrganizationCode == t.Code()
}

func (f *fakePermissions) Update(_ context.Context, t repository.Tenant, p *models.Permission) error {
	if d, ok := f.docs[p.ID]; !ok || !permissionOwned(t, d) {
		return repository.ErrNotFound
	}
	f.docs[p.ID] = *p
	return nil
}

func (f *fakePermissions) Delete(_ context.Context, t repository.Tenant, id primitive.ObjectID) error {
	if d, ok := f.docs[id]; !ok || !permissionOwned(t, d) {
		return repository.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

type fakeAttendance struct {
	docs map[primitive.ObjectID]models.AttendanceRecord
	// beforeReplace runs ahead of every Replace; tests use it to simulate a concurrent writer.
	beforeReplace func(id primitive.ObjectID)
}

func newFakeAttendance() *fakeAttendance {
	return &fakeAttendance{docs: map[primitive.ObjectID]models.AttendanceRecord{}}
}

func (f *fakeAttendance) Insert(_ context.Context, rec *models.AttendanceRecord) error {
	if rec.OrganizationCode == "" {
		return repository.ErrNoTenant
	}
	for _, d := range f.docs {
		if d.OrganizationCode == rec.OrganizationCode && d.EmployeeID == rec.EmployeeID && d.Date.Equal(rec.Date) {
			return repository.ErrDuplicate
		}
	}
	rec.ID = primitive.NewObjectID()
	f.docs[rec.ID] = *rec
	return nil
}

func (f *fakeAttendance) FindByID(_ context.Context, t repository.Tenant, id primitive.ObjectID) (*models.AttendanceRecord, error) {
	if err := tenantErr(t); err != nil {
		return nil, err
	}
	d, ok := f.docs[id]
	if !ok || d.OrganizationCode != t.Code() {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (f *fakeAttendance) filter(t repository.Tenant, match func(models.AttendanceRecord) bool) []models.AttendanceRecord {
	out := []models.AttendanceRecord{}
	for _, d := range f.docs {
		if d.OrganizationCode == t.Code() && match(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out
}

func (f *fakeAttendance) FindForDay(_ context.Context, t repository.Tenant, employeeID primitive.ObjectID, day time.Time) ([]models.AttendanceRecord, error) {
	if err := tenantErr(t); err != nil {
		return nil, err
	}
	return f.filter(t, func(d models.AttendanceRecord) bool {
		return d.EmployeeID == employeeID && d.Date.Equal(day)
	}), nil
}

func (f *fakeAttendance) Replace(_ context.Context, t repository.Tenant, rec *models.AttendanceRecord) error {
	if err := tenantErr(t); err != nil {
		return err
	}
	if f.beforeReplace != nil {
		f.beforeReplace(rec.ID)
	}
	d, ok := f.docs[rec.ID]
	if !ok || d.OrganizationCode != t.Code() || d.Version != rec.Version {
		return repository.ErrVersionConflict
	}
	rec.Version++
	f.docs[rec.ID] = *rec
	return nil
}

func (f *fakeAttendance) DeleteForDay(_ context.Context, t repository.Tenant, employeeID primitive.ObjectID, day time.Time) (int64, error) {
	if err := tenantErr(t); err != nil {
		return 0, err
	}
	var n int64
	for id, d := range f.docs {
		if d.OrganizationCode == t.Code() && d.EmployeeID == employeeID && d.Date.Equal(day) {
			delete(f.docs, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeAttendance) FindByEmployeeBetween(_ context.Context, t repository.Tenant, employeeID primitive.ObjectID, from, to time.Time) ([]models.AttendanceRecord, error) {
	if err := tenantErr(t); err != nil {
		return nil, err
	}
	return f.filter(t, func(d models.AttendanceRecord) bool {
		return d.EmployeeID == employeeID && !d.Date.Before(from) && d.Date.Before(to)
	}), nil
}

func (f *fakeAttendance) FindByDay(_ context.Context, t repository.Tenant, day time.Time) ([]models.AttendanceRecord, error) {
	if err := tenantErr(t); err != nil {
		return nil, err
	}
	return f.filter(t, func(d models.AttendanceRecord) bool { return d.Date.Equal(day) }), nil
}

func (f *fakeAttendance) FindOpenBefore(_ context.Context, cutoff time.Time) ([]models.AttendanceRecord, error) {
	out := []models.AttendanceRecord{}
	for _, d := range f.docs {
		if d.IsLoggedIn && d.Date.Before(cutoff) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeLeaveTypes struct {
	docs map[primitive.ObjectID]models.LeaveType
}

func newFakeLeaveTypes() *fakeLeaveTypes {
	return &fakeLeaveTypes{docs: map[primitive.ObjectID]models.LeaveType{}}
}

func (f *fakeLeaveTypes) Create(_ context.Context, lt *models.LeaveType) error {
	if lt.OrganizationCode == "" {
		return repository.ErrNoTenant
	}
	lt.ID = primitive.NewObjectID()
	f.docs[lt.ID] = *lt
	return nil
}

func (f *fakeLeaveTypes) FindByID(_ context.Context, t repository.Tenant, id primitive.ObjectID) (*models.LeaveType, error) {
	d, ok := f.docs[id]
	if !ok || d.OrganizationCode != t.Code() {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (f *fakeLeaveTypes) FindByName(_ context.Context, t repository.Tenant, name string) (*models.LeaveType, error) {
	for _, d := range f.docs {
		if d.OrganizationCode == t.Code() && d.Name == name {
			out := d
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeLeaveTypes) List(_ context.Context, t repository.Tenant) ([]models.LeaveType, error) {
	out := []models.LeaveType{}
	for _, d := range f.docs {
		if d.OrganizationCode == t.Code() {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeLeaveTypes) Update(_ context.Context, t repository.Tenant, lt *models.LeaveType) error {
	if _, err := f.FindByID(context.Background(), t, lt.ID); err != nil {
		return err
	}
	f.docs[lt.ID] = *lt
	return nil
}

func (f *fakeLeaveTypes) Delete(_ context.Context, t repository.Tenant, id primitive.ObjectID) error {
	if _, err := f.FindByID(context.Background(), t, id); err != nil {
		return err
	}
	delete(f.docs, id)
	return nil
}

type fakeLeaveApps struct {
	docs map[primitive.ObjectID]models.LeaveApplication
}

func newFakeLeaveApps() *fakeLeaveApps {
	return &fakeLeaveApps{docs: map[primitive.ObjectID]models.LeaveApplication{}}
}

func (f *fakeLeaveApps) Create(_ context.Context, app *models.LeaveApplication) error {
	if app.OrganizationCode == "" {
		return repository.ErrNoTenant
	}
	app.ID = primitive.NewObjectID()
	f.docs[app.ID] = *app
	return nil
}

func (f *fakeLeaveApps) FindByID(_ context.Context, t repository.Tenant, id primitive.ObjectID) (*models.LeaveApplication, error) {
	d, ok := f.docs[id]
	if !ok || d.OrganizationCode != t.Code() {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (f *fakeLeaveApps) FindBlockingOverlaps(_ context.Context, t repository.Tenant, employeeID primitive.ObjectID, start, end time.Time) ([]models.LeaveApplication, error) {
	out := []models.LeaveApplication{}
	for _, d := range f.docs {
		if d.OrganizationCode == t.Code() && d.EmployeeID == employeeID && d.Blocking() &&
			!d.StartDate.After(end) && !d.EndDate.Before(start) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeLeaveApps) List(_ context.Context, t repository.Tenant, filter repository.LeaveFilter) ([]models.LeaveApplication, error) {
	out := []models.LeaveApplication{}
	for _, d := range f.docs {
		if d.OrganizationCode != t.Code() ||
			filter.EmployeeID != nil && d.EmployeeID != *filter.EmployeeID ||
			filter.Status != "" && d.Status != filter.Status {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeLeaveApps) FindByEmployeeBetween(_ context.Context, t repository.Tenant, employeeID primitive.ObjectID, from, to time.Time) ([]models.LeaveApplication, error) {
	out := []models.LeaveApplication{}
	for _, d := range f.docs {
		if d.OrganizationCode == t.Code() && d.EmployeeID == employeeID && !d.StartDate.Before(from) && d.StartDate.Before(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeLeaveApps) CountByLeaveType(_ context.Context, t repository.Tenant, leaveTypeID primitive.ObjectID) (int64, error) {
	var n int64
	for _, d := range f.docs {
		if d.OrganizationCode == t.Code() && d.LeaveTypeID == leaveTypeID {
			n++
		}
	}
	return n, nil
}

func (f *fakeLeaveApps) UpdateIfStatus(_ context.Context, t repository.Tenant, app *models.LeaveApplication, expected string) error {
	d, ok := f.docs[app.ID]
	if !ok || d.OrganizationCode != t.Code() || d.Status != expected {
		return repository.ErrVersionConflict
	}
	f.docs[app.ID] = *app
	return nil
}

type fakePayroll struct {
	docs map[primitive.ObjectID]models.PayrollRecord
}

func newFakePayroll() *fakePayroll {
	return &fakePayroll{docs: map[primitive.ObjectID]models.PayrollRecord{}}
}

func (f *fakePayroll) Create(_ context.Context, rec *models.PayrollRecord) error {
	if rec.OrganizationCode == "" {
		return repository.ErrNoTenant
	}
	for _, d := range f.docs {
		if d.OrganizationCode == rec.OrganizationCode && d.EmployeeID == rec.EmployeeID &&
			d.Month == rec.Month && d.Year == rec.Year {
			return repository.ErrDuplicate
		}
	}
	rec.ID = primitive.NewObjectID()
	f.docs[rec.ID] = *rec
	return nil
}

func (f *fakePayroll) FindByID(_ context.Context, t repository.Tenant, id primitive.ObjectID) (*models.PayrollRecord, error) {
	d, ok := f.docs[id]
	if !ok || d.OrganizationCode != t.Code() {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (f *fakePayroll) FindByPeriod(_ context.Context, t repository.Tenant, employeeID primitive.ObjectID, month, year int) (*models.PayrollRecord, error) {
	for _, d := range f.docs {
		if d.OrganizationCode == t.Code() && d.EmployeeID == employeeID && d.Month == month && d.Year == year {
			out := d
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePayroll) List(_ context.Context, t repository.Tenant, filter repository.PayrollFilter) ([]models.PayrollRecord, error) {
	out := []models.PayrollRecord{}
	for _, d := range f.docs {
		if d.OrganizationCode != t.Code() ||
			filter.Month != 0 && d.Month != filter.Month ||
			filter.Year != 0 && d.Year != filter.Year ||
			filter.EmployeeID != nil && d.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakePayroll) Update(_ context.Context, t repository.Tenant, rec *models.PayrollRecord) error {
	if _, err := f.FindByID(context.Background(), t, rec.ID); err != nil {
		return err
	}
	f.docs[rec.ID] = *rec
	return nil
}

func (f *fakePayroll) Delete(_ context.Context, t repository.Tenant, id primitive.ObjectID) error {
	if _, err := f.FindByID(context.Background(), t, id); err != nil {
		return err
	}
	delete(f.docs, id)
	return nil
}

type fakeDocuments struct {
	docs map[primitive.ObjectID]models.Document
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{docs: map[primitive.ObjectID]models.Document{}}
}

func (f *fakeDocuments) Create(_ context.Context, doc *models.Document) error {
	if doc.OrganizationCode == "" {
		return repository.ErrNoTenant
	}
	doc.ID = primitive.NewObjectID()
	f.docs[doc.ID] = *doc
	return nil
}

func (f *fakeDocuments) FindByID(_ context.Context, t repository.Tenant, id primitive.ObjectID) (*models.Document, error) {
	d, ok := f.docs[id]
	if !ok || d.OrganizationCode != t.Code() {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (f *fakeDocuments) List(_ context.Context, t repository.Tenant, employeeID *primitive.ObjectID) ([]models.Document, error) {
	out := []models.Document{}
	for _, d := range f.docs {
		if d.OrganizationCode == t.Code() && (employeeID == nil || d.EmployeeID != nil && *d.EmployeeID == *employeeID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocuments) Delete(_ context.Context, t repository.Tenant, id primitive.ObjectID) error {
	if _, err := f.FindByID(context.Background(), t, id); err != nil {
		return err
	}
	delete(f.docs, id)
	return nil
}

type fakeStore struct {
	objects   map[string]string
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]string{}}
}

func (f *fakeStore) Upload(_ context.Context, key string, file io.Reader) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.objects[key] = string(data)
	return "https://files.example.com/" + key, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

// memoryCache mimics the Redis helper with JSON-free copies of string slices and organizations.
type memoryCache struct {
	entries map[string]interface{}
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]interface{}{}}
}

func (c *memoryCache) SetCache(_ context.Context, key string, value interface{}) error {
	c.entries[key] = value
	return nil
}

func (c *memoryCache) GetCache(_ context.Context, key string, target interface{}) (bool, error) {
	v, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	switch dst := target.(type) {
	case *[]string:
		*dst = append([]string{}, v.([]string)...)
	case *models.Organization:
		*dst = *v.(*models.Organization)
	default:
		return false, nil
	}
	return true, nil
}

func (c *memoryCache) DeleteCache(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *memoryCache) DeletePrefix(_ context.Context, prefix string) error {
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}
