//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	appdist "drive-share/application/distribution"
	appnotif "drive-share/application/notification"
	"drive-share/cmd"
	"drive-share/domain/distribution"
	"drive-share/domain/notification"
	"drive-share/domain/product"
	"drive-share/infrastructure/config"
	"drive-share/infrastructure/drive"
	"drive-share/infrastructure/gmail"

	googledrive "google.golang.org/api/drive/v3"

	"github.com/cucumber/godog"
)

const folderCollaborator = "admin@example.com"

type distributionContext struct {
	tempDir string
	props   *config.PropertyFile
	drive   *fakeDriveService
	mail    *fakeGmailService
	output  bytes.Buffer
	err     error
}

// SharedDistributionContext is reset before each scenario via Before hook
var SharedDistributionContext = &distributionContext{}

func InitializeDistributionScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "distribution-test-*")
		if err != nil {
			return c, err
		}
		props, err := config.LoadProperties(filepath.Join(tempDir, "properties.yaml"))
		if err != nil {
			return c, err
		}
		*SharedDistributionContext = distributionContext{
			tempDir: tempDir,
			props:   props,
			drive:   &fakeDriveService{},
			mail:    &fakeGmailService{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedDistributionContext.tempDir != "" {
			os.RemoveAll(SharedDistributionContext.tempDir)
		}
		return c, nil
	})

	d := SharedDistributionContext

	ctx.Step(`^product "([^"]*)" has drive credentials$`, d.productHasDriveCredentials)
	ctx.Step(`^product "([^"]*)" stores files in folder "([^"]*)"$`, d.productStoresFilesInFolder)
	ctx.Step(`^product "([^"]*)" keeps files for (-?\d+) days$`, d.productKeepsFilesFor)
	ctx.Step(`^product "([^"]*)" uses the share template:$`, d.productUsesTheShareTemplate)
	ctx.Step(`^a local file "([^"]*)"$`, d.aLocalFile)
	ctx.Step(`^the drive has a folder "([^"]*)"$`, d.theDriveHasAFolder)
	ctx.Step(`^the drive has a file "([^"]*)" created (\d+) days ago$`, d.theDriveHasAFileCreatedDaysAgo)
	ctx.Step(`^the drive has a file "([^"]*)" created (\d+) days ago owned by someone else$`, d.theDriveHasASharedFileCreatedDaysAgo)
	ctx.Step(`^the drive fails the next (\d+) uploads?$`, d.theDriveFailsTheNextUploads)
	ctx.Step(`^the drive cannot list files$`, d.theDriveCannotListFiles)
	ctx.Step(`^the mail service is down$`, d.theMailServiceIsDown)

	ctx.Step(`^I upload "([^"]*)" for product "([^"]*)" to "([^"]*)"$`, d.iUploadForProductTo)
	ctx.Step(`^I run cleanup for products "([^"]*)"$`, d.iRunCleanupForProducts)
	ctx.Step(`^I resolve the folder of product "([^"]*)"$`, d.iResolveTheFolderOfProduct)

	ctx.Step(`^the command should succeed$`, d.theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "([^"]*)"$`, d.theCommandShouldFailWith)
	ctx.Step(`^the output should contain "([^"]*)"$`, d.theOutputShouldContain)
	ctx.Step(`^the drive should contain a (spreadsheet|document|file) named "([^"]*)" in folder "([^"]*)"$`, d.theDriveShouldContainInFolder)
	ctx.Step(`^the drive should contain "([^"]*)"$`, d.theDriveShouldContain)
	ctx.Step(`^the drive should not contain "([^"]*)"$`, d.theDriveShouldNotContain)
	ctx.Step(`^there should be (\d+) folders? named "([^"]*)"$`, d.thereShouldBeFoldersNamed)
	ctx.Step(`^"([^"]*)" should have writer access to "([^"]*)" (with|without) a drive notification$`, d.shouldHaveWriterAccessTo)
	ctx.Step(`^no drive calls should be made$`, d.noDriveCallsShouldBeMade)
	ctx.Step(`^(\d+) emails? should be sent to "([^"]*)"$`, d.emailsShouldBeSentTo)
	ctx.Step(`^the email subject should be "([^"]*)"$`, d.theEmailSubjectShouldBe)
	ctx.Step(`^the email should contain "([^"]*)"$`, d.theEmailShouldContain)
	ctx.Step(`^the email should not contain "([^"]*)"$`, d.theEmailShouldNotContain)
	ctx.Step(`^the mail service should have been called (\d+) times$`, d.theMailServiceShouldHaveBeenCalled)
}

// --- wiring ---

func (d *distributionContext) uploadService() *appdist.UploadService {
	settings := product.NewSettings(d.props)
	factory := drive.NewFactory(settings, drive.WithServiceBuilder(
		func(ctx context.Context, credentials []byte, userAgent string) (drive.DriveService, error) {
			return d.drive, nil
		},
	))

	sender := gmail.NewClient(
		notification.Recipient{Name: "Reports", Address: "reports@example.com"},
		gmail.WithGmailService(d.mail),
	)
	notifier := appnotif.NewService(sender, settings)

	return appdist.NewUploadService(factory, settings, notifier,
		appdist.WithFolderResolver(appdist.NewFolderResolver(folderCollaborator, nil)),
	)
}

// --- given ---

func (d *distributionContext) productHasDriveCredentials(p string) error {
	return d.props.Set(p, product.KeyDriveCredentials, `{"type": "service_account"}`)
}

func (d *distributionContext) productStoresFilesInFolder(p, folder string) error {
	return d.props.Set(p, product.KeyFolderName, folder)
}

func (d *distributionContext) productKeepsFilesFor(p string, days int) error {
	return d.props.Set(p, product.KeyRetentionDays, strconv.Itoa(days))
}

func (d *distributionContext) productUsesTheShareTemplate(p string, doc *godog.DocString) error {
	return d.props.Set(p, product.KeyEmailTemplate, doc.Content)
}

func (d *distributionContext) aLocalFile(name string) error {
	return os.WriteFile(filepath.Join(d.tempDir, name), []byte("content of "+name), 0644)
}

func (d *distributionContext) theDriveHasAFolder(name string) error {
	d.drive.nextID++
	d.drive.files = append(d.drive.files, &googledrive.File{
		Id:          fmt.Sprintf("existing-%d", d.drive.nextID),
		Name:        name,
		MimeType:    distribution.MimeTypeFolder.String(),
		CreatedTime: time.Now().AddDate(-1, 0, 0).UTC().Format(time.RFC3339),
		OwnedByMe:   true,
	})
	return nil
}

func (d *distributionContext) addFile(name string, daysAgo int, owned bool) {
	d.drive.nextID++
	d.drive.files = append(d.drive.files, &googledrive.File{
		Id:          fmt.Sprintf("existing-%d", d.drive.nextID),
		Name:        name,
		MimeType:    distribution.ClassifyMimeType(name).String(),
		CreatedTime: time.Now().AddDate(0, 0, -daysAgo).UTC().Format(time.RFC3339),
		OwnedByMe:   owned,
	})
}

func (d *distributionContext) theDriveHasAFileCreatedDaysAgo(name string, daysAgo int) error {
	d.addFile(name, daysAgo, true)
	return nil
}

func (d *distributionContext) theDriveHasASharedFileCreatedDaysAgo(name string, daysAgo int) error {
	d.addFile(name, daysAgo, false)
	return nil
}

func (d *distributionContext) theDriveFailsTheNextUploads(n int) error {
	d.drive.failUploads = n
	return nil
}

func (d *distributionContext) theDriveCannotListFiles() error {
	d.drive.failListings = true
	return nil
}

func (d *distributionContext) theMailServiceIsDown() error {
	d.mail.down = true
	return nil
}

// --- when ---

func (d *distributionContext) iUploadForProductTo(name, p, recipient string) error {
	path := filepath.Join(d.tempDir, name)
	d.err = cmd.RunUploadWithDependencies(context.Background(), d.uploadService(), path, recipient, p, &d.output)
	return nil
}

func (d *distributionContext) iRunCleanupForProducts(list string) error {
	var products []string
	for _, p := range strings.Split(list, ",") {
		products = append(products, strings.TrimSpace(p))
	}
	d.err = cmd.RunCleanupWithDependencies(context.Background(), d.uploadService(), products, &d.output)
	return nil
}

func (d *distributionContext) iResolveTheFolderOfProduct(p string) error {
	d.err = cmd.RunFolderWithDependencies(context.Background(), d.uploadService(), p, &d.output)
	return nil
}

// --- then ---

func (d *distributionContext) theCommandShouldSucceed() error {
	if d.err != nil {
		return fmt.Errorf("expected success, got %v\noutput:\n%s", d.err, d.output.String())
	}
	return nil
}

func (d *distributionContext) theCommandShouldFailWith(kind string) error {
	if d.err == nil {
		return fmt.Errorf("expected failure containing %q, got success", kind)
	}
	if !strings.Contains(d.err.Error(), kind) {
		return fmt.Errorf("expected error containing %q, got %v", kind, d.err)
	}
	return nil
}

func (d *distributionContext) theOutputShouldContain(text string) error {
	if !strings.Contains(d.output.String(), text) {
		return fmt.Errorf("output does not contain %q:\n%s", text, d.output.String())
	}
	return nil
}

func (d *distributionContext) theDriveShouldContainInFolder(kind, name, folder string) error {
	file := d.drive.byName(name)
	if file == nil {
		return fmt.Errorf("drive has no file %q", name)
	}
	parent := d.drive.byName(folder)
	if parent == nil {
		return fmt.Errorf("drive has no folder %q", folder)
	}
	if len(file.Parents) != 1 || file.Parents[0] != parent.Id {
		return fmt.Errorf("file %q has parents %v, want [%s]", name, file.Parents, parent.Id)
	}

	want := map[string]distribution.MimeType{
		"spreadsheet": distribution.MimeTypeSheets,
		"document":    distribution.MimeTypeDocument,
		"file":        distribution.MimeTypeUnknown,
	}[kind]
	if file.MimeType != want.String() {
		return fmt.Errorf("file %q has MIME type %s, want %s", name, file.MimeType, want)
	}
	return nil
}

func (d *distributionContext) theDriveShouldContain(name string) error {
	if d.drive.byName(name) == nil {
		return fmt.Errorf("drive has no file %q", name)
	}
	return nil
}

func (d *distributionContext) theDriveShouldNotContain(name string) error {
	if d.drive.byName(name) != nil {
		return fmt.Errorf("drive still contains %q", name)
	}
	return nil
}

func (d *distributionContext) thereShouldBeFoldersNamed(n int, name string) error {
	count := 0
	for _, f := range d.drive.files {
		if f.Name == name && f.MimeType == distribution.MimeTypeFolder.String() {
			count++
		}
	}
	if count != n {
		return fmt.Errorf("found %d folders named %q, want %d", count, name, n)
	}
	return nil
}

func (d *distributionContext) shouldHaveWriterAccessTo(email, name, with string) error {
	file := d.drive.byName(name)
	if file == nil {
		return fmt.Errorf("drive has no file %q", name)
	}
	for _, g := range d.drive.grants {
		if g.fileID == file.Id && g.email == email {
			if g.notify != (with == "with") {
				return fmt.Errorf("grant to %s on %q has notify=%v", email, name, g.notify)
			}
			return nil
		}
	}
	return fmt.Errorf("%s has no access to %q, grants: %+v", email, name, d.drive.grants)
}

func (d *distributionContext) noDriveCallsShouldBeMade() error {
	if d.drive.calls != 0 {
		return fmt.Errorf("expected no drive calls, got %d", d.drive.calls)
	}
	return nil
}

func (d *distributionContext) sentMessages() ([]string, error) {
	var raws []string
	for _, m := range d.mail.sent {
		raw, err := base64.URLEncoding.DecodeString(m.Raw)
		if err != nil {
			return nil, err
		}
		raws = append(raws, string(raw))
	}
	return raws, nil
}

func (d *distributionContext) lastEmail() (string, error) {
	raws, err := d.sentMessages()
	if err != nil {
		return "", err
	}
	if len(raws) == 0 {
		return "", fmt.Errorf("no email was sent")
	}
	return raws[len(raws)-1], nil
}

func (d *distributionContext) emailsShouldBeSentTo(n int, address string) error {
	raws, err := d.sentMessages()
	if err != nil {
		return err
	}
	count := 0
	for _, raw := range raws {
		if strings.Contains(raw, "To: "+address+"\r\n") {
			count++
		}
	}
	if count != n {
		return fmt.Errorf("%d emails sent to %s, want %d", count, address, n)
	}
	return nil
}

func (d *distributionContext) theEmailSubjectShouldBe(subject string) error {
	return d.theEmailShouldContain("Subject: " + subject + "\r\n")
}

func (d *distributionContext) theEmailShouldContain(text string) error {
	raw, err := d.lastEmail()
	if err != nil {
		return err
	}
	if !strings.Contains(raw, text) {
		return fmt.Errorf("email does not contain %q:\n%s", text, raw)
	}
	return nil
}

func (d *distributionContext) theEmailShouldNotContain(text string) error {
	raw, err := d.lastEmail()
	if err != nil {
		return err
	}
	if strings.Contains(raw, text) {
		return fmt.Errorf("email unexpectedly contains %q:\n%s", text, raw)
	}
	return nil
}

func (d *distributionContext) theMailServiceShouldHaveBeenCalled(n int) error {
	if d.mail.calls != n {
		return fmt.Errorf("mail service called %d times, want %d", d.mail.calls, n)
	}
	return nil
}
